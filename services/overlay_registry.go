package services

import "sync"

// OverlayRegistry hands out one Overlay per open document so concurrent
// requests against the same document share state.
type OverlayRegistry struct {
	mu       sync.Mutex
	overlays map[string]*Overlay
	persist  PersistFunc
	notify   NotifyFunc
	restore  func(documentID string) (map[string]bool, map[string]string, map[string]string)
}

func NewOverlayRegistry(persist PersistFunc, notify NotifyFunc,
	restore func(documentID string) (map[string]bool, map[string]string, map[string]string)) *OverlayRegistry {
	return &OverlayRegistry{
		overlays: map[string]*Overlay{},
		persist:  persist,
		notify:   notify,
		restore:  restore,
	}
}

// Get returns the overlay for a document, creating and restoring it on first
// access.
func (r *OverlayRegistry) Get(documentID string) *Overlay {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.overlays[documentID]; ok {
		return o
	}

	o := NewOverlay(documentID, r.persist, r.notify)
	if r.restore != nil {
		excluded, images, texts := r.restore(documentID)
		o.Restore(excluded, images, texts)
	}
	r.overlays[documentID] = o
	return o
}

// Close flushes and drops the overlay for a document.
func (r *OverlayRegistry) Close(documentID string) {
	r.mu.Lock()
	o, ok := r.overlays[documentID]
	delete(r.overlays, documentID)
	r.mu.Unlock()

	if ok {
		o.Flush()
	}
}
