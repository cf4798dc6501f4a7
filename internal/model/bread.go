package model

// BreadType is one personality archetype the result may name.
type BreadType struct {
	Name        string `json:"name"`
	Catchphrase string `json:"catchphrase"`
}

// BreadCatalog is a read-only, ordered mapping from bread name to catchphrase.
type BreadCatalog struct {
	entries  []BreadType
	byName   map[string]string
	fallback string
}

// DefaultFallbackPhrase is appended when the result names no known bread.
const DefaultFallbackPhrase = "“오늘도 빵처럼 포근하게 굴러가는 중…🍞”"

// NewBreadCatalog builds a catalog. Later duplicates of a name are ignored.
func NewBreadCatalog(entries []BreadType, fallback string) *BreadCatalog {
	c := &BreadCatalog{
		entries:  make([]BreadType, 0, len(entries)),
		byName:   make(map[string]string, len(entries)),
		fallback: fallback,
	}
	for _, e := range entries {
		if _, dup := c.byName[e.Name]; dup {
			continue
		}
		c.entries = append(c.entries, e)
		c.byName[e.Name] = e.Catchphrase
	}
	return c
}

// DefaultBreadCatalog returns the closed set of eight bread types.
func DefaultBreadCatalog() *BreadCatalog {
	return NewBreadCatalog([]BreadType{
		{Name: "소금빵", Catchphrase: "“심플한데 계속 생각나는 게 내 매력이야.”"},
		{Name: "크루아상", Catchphrase: "“겉은 바삭, 속은 말랑… 나 꽤 다채로운 사람임.”"},
		{Name: "바게트", Catchphrase: "“쉽게 친해지진 않지만, 친해지면 오래 가.”"},
		{Name: "식빵", Catchphrase: "“나랑 있으면 일상이 좀 편해질걸?”"},
		{Name: "베이글", Catchphrase: "“나 좀 단단해 보여도, 속은 꽤 따뜻해.”"},
		{Name: "단팥빵", Catchphrase: "“겉보기보다 정 많은 거, 나만 알면 돼.”"},
		{Name: "치아바타", Catchphrase: "“호불호는 갈려도, 맞는 사람한텐 최애야.”"},
		{Name: "초코소라빵", Catchphrase: "“나랑 있으면 심심할 틈은 없어.”"},
	}, DefaultFallbackPhrase)
}

// Lookup returns the catchphrase for an exact bread name.
func (c *BreadCatalog) Lookup(name string) (string, bool) {
	phrase, ok := c.byName[name]
	return phrase, ok
}

// Names lists bread names in catalog order.
func (c *BreadCatalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the catalog contents in order.
func (c *BreadCatalog) Entries() []BreadType {
	out := make([]BreadType, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *BreadCatalog) Default() string {
	return c.fallback
}

func (c *BreadCatalog) Len() int {
	return len(c.entries)
}
