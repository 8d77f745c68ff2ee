package args

type ChannelRef string

// Arguments maps slot names to typed values: string, int or ChannelRef.
type Arguments map[string]any

func (a Arguments) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Arguments) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case ChannelRef:
		return string(v)
	}
	return ""
}

func (a Arguments) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

func (a Arguments) Channel(name string) (ChannelRef, bool) {
	v, ok := a[name].(ChannelRef)
	return v, ok
}
