// Package catalog holds the closed lists a registration is checked against:
// user categories with their specific roles, and regions (wilayas) with
// their sub-regions (moughataas). Every entry carries an Arabic and a
// French label so both front-ends render the same choices.
package catalog

import "slices"

// Label is a bilingual display name.
type Label struct {
	AR string `json:"ar"`
	FR string `json:"fr"`
}

// Option is one selectable value.
type Option struct {
	Value string `json:"value"`
	Label Label  `json:"label"`
}

// Category groups the specific roles a user may pick.
type Category struct {
	Option
	Roles []Option `json:"roles"`
}

// Region is a wilaya and its moughataas.
type Region struct {
	Option
	SubRegions []Option `json:"sub_regions"`
}

const (
	Professor      = "professor"
	Instructor     = "instructor"
	Administration = "administration"
)

func opt(value, ar, fr string) Option { return Option{Value: value, Label: Label{AR: ar, FR: fr}} }

var categories = []Category{
	{Option: opt(Professor, "أستاذ", "Professeur"), Roles: []Option{
		opt("prof_1er_cycle", "أستاذ تعليم أساسي", "Professeur 1er cycle"),
		opt("prof_2e_cycle", "أستاذ تعليم إعدادي", "Professeur 2e cycle"),
	}},
	{Option: opt(Instructor, "معلم", "Instituteur"), Roles: []Option{
		opt("inst_arabe", "معلم لغة عربية", "Instituteur Arabe"),
		opt("inst_francais", "معلم لغة فرنسية", "Instituteur Français"),
		opt("inst_bilingue", "معلم مزدوج", "Instituteur Bilingue"),
	}},
	{Option: opt(Administration, "الإدارة", "Direction"), Roles: []Option{
		opt("dir_general", "المدير العام", "Directeur Général"),
		opt("dir_etudes", "المدير الدراسي", "Directeur d'Études"),
		opt("surveillant", "المراقب العام", "Surveillant Général"),
	}},
}

var regions = []Region{
	{Option: opt("Hodh Ech Chargui", "الحوض الشرقي", "Hodh Ech Chargui"), SubRegions: []Option{
		opt("Amourj", "أمورج", "Amourj"),
		opt("Bassikounou", "باسكنو", "Bassikounou"),
		opt("Djiguenni", "جكني", "Djiguenni"),
		opt("Nema", "النعمة", "Néma"),
		opt("Oualata", "ولاتة", "Oualata"),
		opt("Timbedra", "تمبدغة", "Timbédra"),
	}},
	{Option: opt("Hodh El Gharbi", "الحوض الغربي", "Hodh El Gharbi"), SubRegions: []Option{
		opt("Aioun", "العيون", "Aïoun"),
		opt("Kobenni", "كوبني", "Kobenni"),
		opt("Tamchekett", "تامشكط", "Tamchekett"),
		opt("Tintane", "الطينطان", "Tintane"),
	}},
	{Option: opt("Assaba", "العصابة", "Assaba"), SubRegions: []Option{
		opt("Barkeol", "بركيول", "Barkéol"),
		opt("Boumdeid", "بومديد", "Boumdeid"),
		opt("Guerou", "كرو", "Guérou"),
		opt("Kankossa", "كنكوصة", "Kankossa"),
		opt("Kiffa", "كيفة", "Kiffa"),
	}},
	{Option: opt("Gorgol", "كوركول", "Gorgol"), SubRegions: []Option{
		opt("Kaedi", "كيهيدي", "Kaédi"),
		opt("Maghama", "مقامة", "Maghama"),
		opt("MBout", "امبود", "M'Bout"),
		opt("Monguel", "مونكل", "Monguel"),
	}},
	{Option: opt("Brakna", "البراكنة", "Brakna"), SubRegions: []Option{
		opt("Aleg", "ألاك", "Aleg"),
		opt("Bababe", "باباب", "Bababé"),
		opt("Boghe", "بوكي", "Boghé"),
		opt("MBagne", "امباني", "M'Bagne"),
		opt("Magta Lahjar", "مقطع لحجار", "Magta-Lahjar"),
	}},
	{Option: opt("Trarza", "الترارزة", "Trarza"), SubRegions: []Option{
		opt("Boutilimit", "بوتلميت", "Boutilimit"),
		opt("Keur Macene", "كرمسين", "Keur Macène"),
		opt("Mederdra", "المذرذرة", "Méderdra"),
		opt("Ouad Naga", "واد الناقة", "Ouad Naga"),
		opt("RKiz", "الركيز", "R'Kiz"),
		opt("Rosso", "روصو", "Rosso"),
	}},
	{Option: opt("Adrar", "أدرار", "Adrar"), SubRegions: []Option{
		opt("Aoujeft", "أوجفت", "Aoujeft"),
		opt("Atar", "أطار", "Atar"),
		opt("Chinguetti", "شنقيط", "Chinguetti"),
		opt("Ouadane", "وادان", "Ouadane"),
	}},
	{Option: opt("Dakhlet Nouadhibou", "داخلت نواذيبو", "Dakhlet Nouadhibou"), SubRegions: []Option{
		opt("Chami", "الشامي", "Chami"),
		opt("Nouadhibou", "نواذيبو", "Nouadhibou"),
	}},
	{Option: opt("Tagant", "تكانت", "Tagant"), SubRegions: []Option{
		opt("Moudjeria", "المجرية", "Moudjéria"),
		opt("Tichitt", "تيشيت", "Tichitt"),
		opt("Tidjikja", "تجكجة", "Tidjikja"),
	}},
	{Option: opt("Guidimakha", "كيدي ماغا", "Guidimakha"), SubRegions: []Option{
		opt("Ghabou", "غابو", "Ghabou"),
		opt("Ould Yenge", "ولد ينج", "Ould Yengé"),
		opt("Selibabi", "سيلبابي", "Sélibabi"),
	}},
	{Option: opt("Tiris Zemmour", "تيرس زمور", "Tiris Zemmour"), SubRegions: []Option{
		opt("Bir Moghrein", "بئر أم اكرين", "Bir Moghrein"),
		opt("FDerik", "فديرك", "F'Dérik"),
		opt("Zouerate", "ازويرات", "Zouérate"),
	}},
	{Option: opt("Inchiri", "إينشيري", "Inchiri"), SubRegions: []Option{
		opt("Akjoujt", "أكجوجت", "Akjoujt"),
		opt("Bennichab", "بنشاب", "Bennichab"),
	}},
	{Option: opt("Nouakchott-Nord", "نواكشوط الشمالية", "Nouakchott-Nord"), SubRegions: []Option{
		opt("Dar Naim", "دار النعيم", "Dar Naïm"),
		opt("Teyarett", "تيارت", "Teyarett"),
		opt("Toujounine", "توجنين", "Toujounine"),
	}},
	{Option: opt("Nouakchott-Ouest", "نواكشوط الغربية", "Nouakchott-Ouest"), SubRegions: []Option{
		opt("Ksar", "لكصر", "Ksar"),
		opt("Sebkha", "السبخة", "Sebkha"),
		opt("Tevragh Zeina", "تفرغ زينة", "Tevragh Zeina"),
	}},
	{Option: opt("Nouakchott-Sud", "نواكشوط الجنوبية", "Nouakchott-Sud"), SubRegions: []Option{
		opt("Arafat", "عرفات", "Arafat"),
		opt("El Mina", "الميناء", "El Mina"),
		opt("Riyad", "الرياض", "Riyad"),
	}},
}

var (
	rolesByCategory = map[string]map[string]bool{}
	subsByRegion    = map[string]map[string]bool{}
)

func init() {
	for _, c := range categories {
		set := make(map[string]bool, len(c.Roles))
		for _, r := range c.Roles {
			set[r.Value] = true
		}
		rolesByCategory[c.Value] = set
	}
	for _, r := range regions {
		set := make(map[string]bool, len(r.SubRegions))
		for _, s := range r.SubRegions {
			set[s.Value] = true
		}
		subsByRegion[r.Value] = set
	}
}

// Categories returns a copy of the categories in display order.
func Categories() []Category {
	out := slices.Clone(categories)
	for i := range out {
		out[i].Roles = slices.Clone(out[i].Roles)
	}
	return out
}

// Regions returns a copy of the regions in display order.
func Regions() []Region {
	out := slices.Clone(regions)
	for i := range out {
		out[i].SubRegions = slices.Clone(out[i].SubRegions)
	}
	return out
}

// KnownCategory reports whether category is one of the fixed categories.
func KnownCategory(category string) bool {
	_, ok := rolesByCategory[category]
	return ok
}

// KnownRegion reports whether region is one of the fixed regions.
func KnownRegion(region string) bool {
	_, ok := subsByRegion[region]
	return ok
}

// ValidRole reports whether role belongs to category.
func ValidRole(category, role string) bool { return rolesByCategory[category][role] }

// ValidSubRegion reports whether sub belongs to region.
func ValidSubRegion(region, sub string) bool { return subsByRegion[region][sub] }

// RolesFor returns a copy of the roles of category, or nil for an unknown category.
func RolesFor(category string) []Option {
	for _, c := range categories {
		if c.Value == category {
			return slices.Clone(c.Roles)
		}
	}
	return nil
}

// SubRegionsFor returns a copy of the sub-regions of region, or nil for an unknown
// region.
func SubRegionsFor(region string) []Option {
	for _, r := range regions {
		if r.Value == region {
			return slices.Clone(r.SubRegions)
		}
	}
	return nil
}
