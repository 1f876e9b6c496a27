package services

import (
	"log"
	"sort"
	"sync"
	"time"
)

// DefaultDebounceWindow is how long block text edits coalesce before one
// write is issued.
const DefaultDebounceWindow = time.Second

// OverlaySnapshot is an immutable copy of the overlay state, safe to hand to
// a render pass while edits continue.
type OverlaySnapshot struct {
	Excluded map[string]bool
	Images   map[string]string
	Texts    map[string]string
}

// PersistFunc writes one overlay key/value pair for a document. It is called
// off the editing goroutine; a failed write is reported via NotifyFunc while
// the in-memory state keeps the optimistic value.
type PersistFunc func(documentID, key, value string) error

// NotifyFunc surfaces a persistence failure to the user interface.
type NotifyFunc func(documentID, message string)

// Overlay holds the editable presentation state of one document: per-item
// exclusions, per-item image overrides and per-block text edits. Structural
// edits apply immediately; text edits debounce.
type Overlay struct {
	documentID string
	persist    PersistFunc
	notify     NotifyFunc

	mu       sync.Mutex
	window   time.Duration
	excluded map[string]bool
	images   map[string]string
	texts    map[string]string
	timers   map[string]*time.Timer
	wg       sync.WaitGroup
}

func NewOverlay(documentID string, persist PersistFunc, notify NotifyFunc) *Overlay {
	return &Overlay{
		documentID: documentID,
		persist:    persist,
		notify:     notify,
		window:     DefaultDebounceWindow,
		excluded:   map[string]bool{},
		images:     map[string]string{},
		texts:      map[string]string{},
		timers:     map[string]*time.Timer{},
	}
}

// SetDebounceWindow overrides the text-edit coalescing window; tests shrink
// it to keep runs fast.
func (o *Overlay) SetDebounceWindow(d time.Duration) {
	o.mu.Lock()
	o.window = d
	o.mu.Unlock()
}

// ToggleExclusion flips an item's visibility and persists the full exclusion
// set immediately. Returns the new excluded state.
func (o *Overlay) ToggleExclusion(itemID string) bool {
	o.mu.Lock()
	if o.excluded[itemID] {
		delete(o.excluded, itemID)
	} else {
		o.excluded[itemID] = true
	}
	state := o.excluded[itemID]

	ids := make([]string, 0, len(o.excluded))
	for id := range o.excluded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	o.mu.Unlock()

	o.writeAsync("excluded_items", joinPresent(",", ids...))
	return state
}

// SetImageOverride records a per-item image override and persists it
// immediately. An empty URL clears the override so the item's own image
// shows again.
func (o *Overlay) SetImageOverride(itemID, url string) {
	o.mu.Lock()
	if url == "" {
		delete(o.images, itemID)
	} else {
		o.images[itemID] = url
	}
	o.mu.Unlock()

	o.writeAsync("image:"+itemID, url)
}

// SetBlockText records a block text edit. The in-memory value updates
// immediately; the write is debounced so a typing burst persists once.
func (o *Overlay) SetBlockText(blockID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.texts[blockID] = text

	if t, ok := o.timers[blockID]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(o.window, func() {
		o.mu.Lock()
		value := o.texts[blockID]
		if o.timers[blockID] == t {
			delete(o.timers, blockID)
		}
		o.mu.Unlock()

		o.write("text:"+blockID, value)
	})
	o.timers[blockID] = t
}

// Snapshot returns a copy of the current overlay state.
func (o *Overlay) Snapshot() OverlaySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := OverlaySnapshot{
		Excluded: make(map[string]bool, len(o.excluded)),
		Images:   make(map[string]string, len(o.images)),
		Texts:    make(map[string]string, len(o.texts)),
	}
	for k, v := range o.excluded {
		snap.Excluded[k] = v
	}
	for k, v := range o.images {
		snap.Images[k] = v
	}
	for k, v := range o.texts {
		snap.Texts[k] = v
	}
	return snap
}

// BlockText returns the edited text for a block and whether an edit exists.
func (o *Overlay) BlockText(blockID string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	text, ok := o.texts[blockID]
	return text, ok
}

// Restore loads previously persisted overlay state, replacing the current
// in-memory maps.
func (o *Overlay) Restore(excluded map[string]bool, images, texts map[string]string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.excluded = map[string]bool{}
	for k, v := range excluded {
		if v {
			o.excluded[k] = true
		}
	}
	o.images = map[string]string{}
	for k, v := range images {
		o.images[k] = v
	}
	o.texts = map[string]string{}
	for k, v := range texts {
		o.texts[k] = v
	}
}

// Flush writes all pending debounced text edits immediately and waits for
// every in-flight write to finish. Called on document close and before an
// export renders.
func (o *Overlay) Flush() {
	o.mu.Lock()
	pending := make(map[string]string, len(o.timers))
	for blockID, t := range o.timers {
		t.Stop()
		pending[blockID] = o.texts[blockID]
	}
	o.timers = map[string]*time.Timer{}
	o.mu.Unlock()

	for blockID, value := range pending {
		o.write("text:"+blockID, value)
	}
	o.wg.Wait()
}

func (o *Overlay) writeAsync(key, value string) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.write(key, value)
	}()
}

func (o *Overlay) write(key, value string) {
	if o.persist == nil {
		return
	}
	if err := o.persist(o.documentID, key, value); err != nil {
		log.Printf("overlay: persist %s for document %s: %v", key, o.documentID, err)
		if o.notify != nil {
			o.notify(o.documentID, "Could not save your change. It is still applied on screen.")
		}
	}
}
