package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/config"
)

// captureWriter forwards the response to the client while keeping a copy
// of the first limit bytes.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	switch remain := cw.limit - cw.size; {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case remain >= int64(len(b)):
		cw.buf.Write(b)
	case remain > 0:
		cw.buf.Write(b[:remain])
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// truncated reports whether the captured copy is incomplete.
func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// cachedResponse is the Redis value: status, headers and body framed as
// [4 bytes status][4 bytes header length][header JSON][body].
type cachedResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

var errBadPayload = errors.New("cache: malformed payload")

func (r cachedResponse) MarshalBinary() ([]byte, error) {
	hdr, err := json.Marshal(r.Header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(r.Body))
	binary.BigEndian.PutUint32(out[0:4], uint32(r.Status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], r.Body)
	return out, nil
}

func (r *cachedResponse) UnmarshalBinary(bs []byte) error {
	if len(bs) < 8 {
		return errBadPayload
	}
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return errBadPayload
	}
	r.Status = int(binary.BigEndian.Uint32(bs[0:4]))
	r.Header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &r.Header); err != nil {
			return errBadPayload
		}
	}
	r.Body = bs[8+hlen:]
	return nil
}

// cacheKey hashes the parts selected by the configured strategy under
// the configured prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// NewRedisCache replays successful responses from Redis for cfg.TTL.
// Without a Redis client, or when disabled, it is a pass-through.
// Responses larger than MaxBodyBytes are served but not stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if hit.UnmarshalBinary(bs) == nil {
					h := c.Response().Header()
					for k, vals := range hit.Header {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(hit.Status)
					_, err := c.Response().Write(hit.Body)
					return err
				}
			} else if !errors.Is(err, redis.Nil) {
				log.Warn("cache: redis get failed", zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := cachedResponse{Status: cw.status, Header: hdr, Body: cw.buf.Bytes()}.MarshalBinary()
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				log.Warn("cache: redis set failed", zap.Error(err))
			}
			return nil
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
