package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryCollection struct {
	order []string          // ids in insertion order
	docs  map[string][]byte // id -> JSON document
}

// MemoryGateway keeps documents as JSON in process memory. It serializes exactly like
// the PostgreSQL backend, so tests against it exercise the same encoding paths.
type MemoryGateway struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{collections: make(map[string]*memoryCollection)}
}

// collection returns the named collection, creating it. Callers hold the write lock.
func (g *MemoryGateway) collection(name string) *memoryCollection {
	c, ok := g.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string][]byte)}
		g.collections[name] = c
	}
	return c
}

func (g *MemoryGateway) FindMany(ctx context.Context, collection string, filter Filter, out any) error {
	want, err := encodeFilter(filter)
	if err != nil {
		return err
	}

	g.mu.RLock()
	var matched [][]byte
	if c, ok := g.collections[collection]; ok {
		for _, id := range c.order {
			doc := c.docs[id]
			ok, err := matches(doc, want)
			if err != nil {
				g.mu.RUnlock()
				return err
			}
			if ok {
				matched = append(matched, doc)
			}
		}
	}
	g.mu.RUnlock()

	return decodeList(matched, out)
}

func (g *MemoryGateway) FindByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()

	g.mu.RLock()
	var doc []byte
	if c, ok := g.collections[collection]; ok {
		doc = c.docs[id]
	}
	g.mu.RUnlock()

	if doc == nil {
		return false, nil
	}
	return true, json.Unmarshal(doc, out)
}

func (g *MemoryGateway) Insert(ctx context.Context, collection string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	id := doc.Metadata().ID.Hex()

	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.collection(collection)
	if _, exists := c.docs[id]; exists {
		return fmt.Errorf("duplicate key: %s._id %s", collection, id)
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	return nil
}

func (g *MemoryGateway) UpdateByID(ctx context.Context, collection, id string, patch any, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()
	set, err := patchJSON(patch, Now())
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	c, ok := g.collections[collection]
	if !ok || c.docs[id] == nil {
		g.mu.Unlock()
		return false, nil
	}
	old := c.docs[id]
	merged, err := mergeJSON(old, set)
	if err != nil {
		g.mu.Unlock()
		return false, err
	}
	c.docs[id] = merged
	g.mu.Unlock()

	return true, json.Unmarshal(old, out)
}

func (g *MemoryGateway) DeleteByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	id = oid.Hex()

	g.mu.Lock()
	c, ok := g.collections[collection]
	if !ok || c.docs[id] == nil {
		g.mu.Unlock()
		return false, nil
	}
	old := c.docs[id]
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	return true, json.Unmarshal(old, out)
}

func (g *MemoryGateway) Ping(ctx context.Context) error { return nil }

func (g *MemoryGateway) Close(ctx context.Context) error { return nil }

// patchJSON renders patch as a JSON object and stamps updatedAt on it.
func patchJSON(patch any, now time.Time) ([]byte, error) {
	var fields map[string]json.RawMessage
	if patch != nil {
		raw, err := json.Marshal(patch)
		if err != nil {
			return nil, fmt.Errorf("encode patch: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("patch must encode to a JSON object: %w", err)
		}
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	ts, err := json.Marshal(now)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = ts
	return json.Marshal(fields)
}

// mergeJSON overlays the top-level keys of patch onto doc.
func mergeJSON(doc, patch []byte) ([]byte, error) {
	var base, over map[string]json.RawMessage
	if err := json.Unmarshal(doc, &base); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	if err := json.Unmarshal(patch, &over); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	for k, v := range over {
		base[k] = v
	}
	return json.Marshal(base)
}

// encodeFilter pre-encodes filter values so they compare byte-wise with stored fields.
func encodeFilter(filter Filter) (map[string][]byte, error) {
	want := make(map[string][]byte, len(filter))
	for k, v := range filter {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode filter %q: %w", k, err)
		}
		want[k] = b
	}
	return want, nil
}

func matches(doc []byte, want map[string][]byte) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false, fmt.Errorf("decode stored document: %w", err)
	}
	for k, v := range want {
		got, ok := fields[k]
		if !ok || !bytes.Equal(got, v) {
			return false, nil
		}
	}
	return true, nil
}

// decodeList decodes JSON documents into out, a pointer to a slice.
func decodeList(docs [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}
