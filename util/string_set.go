package util

type StringSet struct {
	internal map[string]struct{}
}

func NewStringSet(items ...string) *StringSet {
	set := &StringSet{internal: make(map[string]struct{}, len(items))}
	set.AddAll(items)
	return set
}

func (set *StringSet) Add(str string) {
	set.internal[str] = struct{}{}
}

func (set *StringSet) AddAll(itemSlice []string) {
	for _, item := range itemSlice {
		set.internal[item] = struct{}{}
	}
}

// Has is safe on a nil set.
func (set *StringSet) Has(str string) bool {
	if set == nil {
		return false
	}
	_, ok := set.internal[str]
	return ok
}

func (set *StringSet) ToArray() []string {
	res := make([]string, 0, len(set.internal))
	for key := range set.internal {
		res = append(res, key)
	}
	return res
}

func (set *StringSet) Size() int {
	return len(set.internal)
}
