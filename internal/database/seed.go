package database

import "github.com/iliyamo/tedris-portal/internal/model"

// DefaultSchools is inserted into an empty schools table on first start so
// the registration form has something to pick from.
var DefaultSchools = []model.School{
	{Name: "مدرسة النور الابتدائية", Region: "Nouakchott-Nord", SubRegion: "Dar Naim"},
	{Name: "مدرسة الأمل الثانوية", Region: "Nouakchott-Sud", SubRegion: "Arafat"},
	{Name: "مدرسة المستقبل", Region: "Trarza", SubRegion: "Rosso"},
	{Name: "مدرسة الرسالة", Region: "Adrar", SubRegion: "Atar"},
	{Name: "مدرسة الفجر", Region: "Hodh Ech Chargui", SubRegion: "Nema"},
	{Name: "مدرسة الهدى", Region: "Hodh El Gharbi", SubRegion: "Aioun"},
	{Name: "مدرسة التقوى", Region: "Assaba", SubRegion: "Kiffa"},
	{Name: "مدرسة الإيمان", Region: "Guidimakha", SubRegion: "Selibabi"},
	{Name: "مدرسة الصلاح", Region: "Guidimakha", SubRegion: "Ould Yenge"},
	{Name: "مدرسة النجاح", Region: "Brakna", SubRegion: "Aleg"},
}
