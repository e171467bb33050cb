package index

// NameIndex tracks which compound owns each normalized search key, plus the
// exact-name set used to keep repeated merges idempotent.
type NameIndex struct {
	owners map[string]string
	names  map[string]struct{}
}

func newNameIndex() *NameIndex {
	return &NameIndex{
		owners: make(map[string]string),
		names:  make(map[string]struct{}),
	}
}

// Lookup returns the owner of a search key.
func (n *NameIndex) Lookup(key string) (string, bool) {
	id, ok := n.owners[key]
	return id, ok
}

// Claim assigns key to compoundID unless another compound already owns it.
// Claiming a key the compound already owns succeeds.
func (n *NameIndex) Claim(key, compoundID string) bool {
	if owner, ok := n.owners[key]; ok {
		return owner == compoundID
	}
	n.owners[key] = compoundID
	return true
}

// ConflictingOwner returns the first key in keys owned by a compound other
// than compoundID.
func (n *NameIndex) ConflictingOwner(keys []string, compoundID string) (string, bool) {
	for _, k := range keys {
		if owner, ok := n.owners[k]; ok && owner != compoundID {
			return owner, true
		}
	}
	return "", false
}

// HasName reports whether the exact name string is registered anywhere.
func (n *NameIndex) HasName(name string) bool {
	_, ok := n.names[name]
	return ok
}

// Register records the exact name string.
func (n *NameIndex) Register(name string) {
	n.names[name] = struct{}{}
}

// Len is the number of owned search keys.
func (n *NameIndex) Len() int { return len(n.owners) }
