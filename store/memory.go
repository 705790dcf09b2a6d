package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store used in development mode and in tests. It
// enforces the same write-path rules as the production backend (sanitized
// documents, rejection of literal "undefined" values) and supports forced
// errors so failure handling can be exercised.
type Memory struct {
	mu        sync.Mutex
	data      map[string]map[string]map[string]interface{} // collection -> key -> doc
	subs      map[int]*memorySub
	nextSubID int
	forced    error
}

type memorySub struct {
	collection string
	orderBy    string
	fn         func([]Record)
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string]map[string]interface{}),
		subs: make(map[int]*memorySub),
	}
}

// ForceError makes every following operation fail with err until reset with
// nil. Lets tests simulate connectivity and permission failures.
func (m *Memory) ForceError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced = err
}

func (m *Memory) List(ctx context.Context, collection, orderBy string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return nil, m.forced
	}
	return m.snapshotLocked(collection, orderBy), nil
}

func (m *Memory) Get(ctx context.Context, collection, key string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return Record{}, m.forced
	}
	doc, ok := m.data[collection][key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{Key: key, Data: cloneDoc(doc)}, nil
}

func (m *Memory) Set(ctx context.Context, collection, key string, data map[string]interface{}, merge bool) error {
	clean, err := Sanitize(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.forced != nil {
		err := m.forced
		m.mu.Unlock()
		return err
	}
	col := m.data[collection]
	if col == nil {
		col = make(map[string]map[string]interface{})
		m.data[collection] = col
	}
	if merge {
		if existing, ok := col[key]; ok {
			merged := cloneDoc(existing)
			for k, v := range clean {
				merged[k] = v
			}
			clean = merged
		}
	}
	col[key] = clean
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	clean, err := Sanitize(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.forced != nil {
		err := m.forced
		m.mu.Unlock()
		return err
	}
	doc, ok := m.data[collection][key]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range clean {
		doc[k] = v
	}
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, key string) error {
	m.mu.Lock()
	if m.forced != nil {
		err := m.forced
		m.mu.Unlock()
		return err
	}
	delete(m.data[collection], key)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, collection, orderBy string, fn func([]Record)) (*Subscription, error) {
	m.mu.Lock()
	if m.forced != nil {
		err := m.forced
		m.mu.Unlock()
		return nil, err
	}
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = &memorySub{collection: collection, orderBy: orderBy, fn: fn}
	initial := m.snapshotLocked(collection, orderBy)
	m.mu.Unlock()

	// Same contract as the Firestore backend: the current set is pushed
	// immediately, then on every change.
	fn(initial)

	return NewSubscription(func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}), nil
}

func (m *Memory) notify(collection string) {
	m.mu.Lock()
	type delivery struct {
		fn      func([]Record)
		records []Record
	}
	var pending []delivery
	for _, sub := range m.subs {
		if sub.collection == collection {
			pending = append(pending, delivery{sub.fn, m.snapshotLocked(collection, sub.orderBy)})
		}
	}
	m.mu.Unlock()

	for _, d := range pending {
		d.fn(d.records)
	}
}

func (m *Memory) snapshotLocked(collection, orderBy string) []Record {
	col := m.data[collection]
	records := make([]Record, 0, len(col))
	for key, doc := range col {
		records = append(records, Record{Key: key, Data: cloneDoc(doc)})
	}
	sortRecords(records, orderBy)
	return records
}

func sortRecords(records []Record, orderBy string) {
	if orderBy == "" {
		sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
		return
	}
	field, desc := orderBy, false
	if field[0] == '-' {
		field, desc = field[1:], true
	}
	sort.Slice(records, func(i, j int) bool {
		a, _ := records[i].Data[field].(string)
		b, _ := records[j].Data[field].(string)
		if desc {
			return a > b
		}
		return a < b
	})
}

func cloneDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = cloneDoc(val)
		case []interface{}:
			cp := make([]interface{}, len(val))
			copy(cp, val)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
