package gateway

import "sync"

// MemoryVault is a mutex-guarded in-process TokenVault.
type MemoryVault struct {
	mu    sync.Mutex
	token string
	ok    bool
}

// NewMemoryVault returns an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

// Save stores the token, replacing any previous one.
func (v *MemoryVault) Save(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
	v.ok = true
}

// Load returns the stored token, reporting whether one is present.
func (v *MemoryVault) Load() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token, v.ok
}

// Clear removes the stored token.
func (v *MemoryVault) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = ""
	v.ok = false
}
