package immosync

// PushKind indicates which real-time event mutated the cache.
type PushKind int

const (
	// PushNew indicates a record creation event.
	PushNew PushKind = iota

	// PushUpdated indicates a record modification event.
	PushUpdated

	// PushDeleted indicates a record removal event.
	PushDeleted
)

// String returns the string representation of the push kind.
func (k PushKind) String() string {
	switch k {
	case PushNew:
		return "new"
	case PushUpdated:
		return "updated"
	case PushDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Hook function type definitions.
type (
	// OnHitHook is called when a fetch finds the record already cached.
	OnHitHook func(id EntityID)

	// OnMissHook is called when a fetch must go to the remote service.
	OnMissHook func(id EntityID)

	// OnApplyHook is called after a push event was applied to the cache.
	OnApplyHook func(kind PushKind, id EntityID)

	// OnPersistHook is called after the cache was written to the
	// persistent local store.
	OnPersistHook func(key string, size int)
)

// Hooks defines event callbacks for cache operations.
type Hooks struct {
	// OnHit is called when a requested record is found in the cache.
	OnHit []OnHitHook

	// OnMiss is called when a requested record is not cached.
	OnMiss []OnMissHook

	// OnApply is called after a real-time event mutated the cache.
	OnApply []OnApplyHook

	// OnPersist is called after a persistence write.
	OnPersist []OnPersistHook
}

// AddOnHit adds an OnHit hook.
func (h *Hooks) AddOnHit(hook OnHitHook) {
	h.OnHit = append(h.OnHit, hook)
}

// AddOnMiss adds an OnMiss hook.
func (h *Hooks) AddOnMiss(hook OnMissHook) {
	h.OnMiss = append(h.OnMiss, hook)
}

// AddOnApply adds an OnApply hook.
func (h *Hooks) AddOnApply(hook OnApplyHook) {
	h.OnApply = append(h.OnApply, hook)
}

// AddOnPersist adds an OnPersist hook.
func (h *Hooks) AddOnPersist(hook OnPersistHook) {
	h.OnPersist = append(h.OnPersist, hook)
}

func (h *Hooks) invokeOnHit(id EntityID) {
	for _, hook := range h.OnHit {
		if hook != nil {
			hook(id)
		}
	}
}

func (h *Hooks) invokeOnMiss(id EntityID) {
	for _, hook := range h.OnMiss {
		if hook != nil {
			hook(id)
		}
	}
}

func (h *Hooks) invokeOnApply(kind PushKind, id EntityID) {
	for _, hook := range h.OnApply {
		if hook != nil {
			hook(kind, id)
		}
	}
}

func (h *Hooks) invokeOnPersist(key string, size int) {
	for _, hook := range h.OnPersist {
		if hook != nil {
			hook(key, size)
		}
	}
}
