//go:build darwin

package reactor

import (
	"golang.org/x/sys/unix"
)

// kqueuePoller is the Darwin platformPoller: kqueue/kevent calls with the
// fd table kept as a plain map rather than a mutex-guarded slice, since
// this loop is driven from exactly one goroutine.
type kqueuePoller struct {
	kq       int
	fds      map[int]kqueueFD
	eventBuf [256]unix.Kevent_t
}

type kqueueFD struct {
	cb     func(EventMask)
	events EventMask
}

func newPlatformPoller() platformPoller {
	return &kqueuePoller{fds: make(map[int]kqueueFD)}
}

func (p *kqueuePoller) init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	unix.CloseOnExec(kq)
	p.kq = kq
	return nil
}

func (p *kqueuePoller) close() error {
	return unix.Close(p.kq)
}

func (p *kqueuePoller) add(fd int, events EventMask, cb func(EventMask)) error {
	if fd < 0 {
		return ErrInvalidFD
	}
	if _, ok := p.fds[fd]; ok {
		return ErrFDAlreadyRegistered
	}
	kevents := eventsToKevents(fd, events, unix.EV_ADD|unix.EV_ENABLE)
	if len(kevents) > 0 {
		if _, err := unix.Kevent(p.kq, kevents, nil, nil); err != nil {
			return err
		}
	}
	p.fds[fd] = kqueueFD{cb: cb, events: events}
	return nil
}

func (p *kqueuePoller) modify(fd int, events EventMask) error {
	info, ok := p.fds[fd]
	if !ok {
		return ErrFDNotRegistered
	}
	old := info.events
	if old&^events != 0 {
		del := eventsToKevents(fd, old&^events, unix.EV_DELETE)
		if len(del) > 0 {
			_, _ = unix.Kevent(p.kq, del, nil, nil)
		}
	}
	if events&^old != 0 {
		add := eventsToKevents(fd, events&^old, unix.EV_ADD|unix.EV_ENABLE)
		if len(add) > 0 {
			if _, err := unix.Kevent(p.kq, add, nil, nil); err != nil {
				return err
			}
		}
	}
	info.events = events
	p.fds[fd] = info
	return nil
}

func (p *kqueuePoller) remove(fd int) error {
	info, ok := p.fds[fd]
	if !ok {
		return ErrFDNotRegistered
	}
	delete(p.fds, fd)
	kevents := eventsToKevents(fd, info.events, unix.EV_DELETE)
	if len(kevents) > 0 {
		_, _ = unix.Kevent(p.kq, kevents, nil, nil)
	}
	return nil
}

func (p *kqueuePoller) poll(timeoutMs int) (int, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeoutMs / 1000),
			Nsec: int64((timeoutMs % 1000) * 1000000),
		}
	}
	n, err := unix.Kevent(p.kq, nil, p.eventBuf[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Ident)
		if info, ok := p.fds[fd]; ok && info.cb != nil {
			info.cb(keventToEvents(&p.eventBuf[i]))
		}
	}
	return n, nil
}

func eventsToKevents(fd int, events EventMask, flags uint16) []unix.Kevent_t {
	var kevents []unix.Kevent_t
	if events.Has(EventRead) {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: flags})
	}
	if events.Has(EventWrite) {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}
	return kevents
}

func keventToEvents(kev *unix.Kevent_t) EventMask {
	var m EventMask
	switch kev.Filter {
	case unix.EVFILT_READ:
		m |= EventRead
	case unix.EVFILT_WRITE:
		m |= EventWrite
	}
	if kev.Flags&unix.EV_ERROR != 0 {
		m |= EventError
	}
	if kev.Flags&unix.EV_EOF != 0 {
		m |= EventError
	}
	return m
}
