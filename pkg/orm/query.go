// Package orm is a thin, chainable query layer over GORM with pagination,
// an optional read-through cache, and query duration metrics.
package orm

import (
	"math"
	"reflect"
	"time"

	"github.com/kunalsingla/product-api/pkg/database"
	"github.com/kunalsingla/product-api/pkg/metrics"
	"gorm.io/gorm"
)

// Cacher is the cache contract used by Query.Cache.
// It is injected at boot (see internal/kernel) so orm does not import the
// cache package and vice versa.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is the injected cache backend; nil disables caching.
var CacheStore Cacher

// Pagination describes one page of a collection result.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap builds a Query over an explicit *gorm.DB (used by tests).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Count(count *int64) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Count(count).Error
}

func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(value).Error
}

func (q *Query) Delete(value interface{}) *gorm.DB {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(value)
}

// GetWithPagination fills dest with one page of rows and returns the
// pagination metadata. page is 1-based; limit is clamped to 1..100.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var total int64
	if err := q.Count(&total); err != nil {
		return Pagination{}, err
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cache answers dest from CacheStore when the key is warm, otherwise runs
// the query and stores the result for ttl. No-op pass-through without a
// cache backend.
//
// Empty results are never stored: a negative entry would shadow a row
// inserted later under the same key until the TTL expired.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	if CacheStore != nil && !isEmptyResult(dest) {
		return CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// isEmptyResult reports whether dest holds no rows after a Find: a nil or
// zero struct, or a zero-length slice/map.
func isEmptyResult(dest interface{}) bool {
	rv := reflect.ValueOf(dest)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return rv.IsZero()
}
