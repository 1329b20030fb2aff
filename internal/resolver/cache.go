package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/typesystem"
)

// Key identifies one resolution: the operation name and its operands.
type Key string

// EntryState distinguishes a lookup that was never made from one that was
// made and found nothing.
type EntryState int

const (
	NotAttempted EntryState = iota
	Absent
	Present
)

type absentEntry struct{}

// Cache memoizes resolution results for one compilation unit. Failed
// resolutions are not stored.
type Cache struct {
	entries map[Key]any
	hits    int
	misses  int
}

type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

func (c *Cache) Get(k Key) (any, EntryState) {
	v, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, NotAttempted
	}
	c.hits++
	if _, absent := v.(absentEntry); absent {
		return nil, Absent
	}
	return v, Present
}

// Put stores v under k; a nil v records an absent result.
func (c *Cache) Put(k Key, v any) {
	if v == nil {
		c.entries[k] = absentEntry{}
		return
	}
	c.entries[k] = v
}

func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) Stats() CacheStats {
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

func newKey(op string, operands ...any) Key {
	var b strings.Builder
	b.WriteString(op)
	for _, o := range operands {
		b.WriteByte('|')
		writeOperand(&b, o)
	}
	return Key(b.String())
}

func writeOperand(b *strings.Builder, o any) {
	switch v := o.(type) {
	case nil:
		b.WriteString("<nil>")
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.Itoa(v))
	case []string:
		b.WriteByte('[')
		for i, s := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(s))
		}
		b.WriteByte(']')
	case *classpath.Class:
		if v == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString("C:" + v.Name())
	case *classpath.Field:
		if v == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString("F:" + v.DeclaringClass().Name() + "." + v.Name())
	case *classpath.Method:
		if v == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString("M:" + v.DeclaringClass().Name() + "." + v.Name() + v.Descriptor())
	case *typesystem.TypeInstance:
		if v == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString("T:" + v.Name())
	case []*typesystem.TypeInstance:
		b.WriteByte('[')
		for i, t := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			writeOperand(b, t)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

// memo runs compute unless r's cache already holds a result for key.
func memo[T comparable](r *Resolver, key Key, compute func() (T, error)) (T, error) {
	var zero T
	if r.cacheEnabled {
		switch v, state := r.cache.Get(key); state {
		case Present:
			return v.(T), nil
		case Absent:
			return zero, nil
		}
	}
	v, err := compute()
	if err != nil {
		return zero, err
	}
	if v == zero {
		r.cache.Put(key, nil)
	} else {
		r.cache.Put(key, v)
	}
	return v, nil
}
