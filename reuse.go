package evdispatch

// findCompatible implements the watcher-reuse rule: scan a target's watcher
// sequence in insertion order and return the first watcher whose kind
// matches and whose kind-specific identity either matches the request or
// was never bound (fd == -1 / signum == -1 sentinel). Timer watchers have
// no secondary identity — any timer watcher for the target is compatible,
// since a target never carries more than one.
func findCompatible[T comparable](entry *targetEntry[T], kind watcherKind, fd, signum int) *watcherHandle[T] {
	for _, h := range entry.watchers {
		if h.kind != kind {
			continue
		}
		switch kind {
		case kindTimer:
			return h
		case kindIO:
			if h.fd == fd || h.fd == -1 {
				return h
			}
		case kindSignal:
			if h.signum == signum || h.signum == -1 {
				return h
			}
		}
	}
	return nil
}
