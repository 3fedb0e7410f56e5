//go:build linux

package reactor

import (
	"golang.org/x/sys/unix"
)

// epollPoller is the Linux platformPoller: epoll_create1/epoll_ctl/epoll_wait
// and an EventMask<->epoll bit mapping, with the fd table kept as a plain
// map rather than a fixed array with version-counter guards, since this
// loop is driven from exactly one goroutine and has no concurrent fd-table
// readers to guard against.
type epollPoller struct {
	epfd     int
	fds      map[int]epollFD
	eventBuf [256]unix.EpollEvent
}

type epollFD struct {
	cb     func(EventMask)
	events EventMask
}

func newPlatformPoller() platformPoller {
	return &epollPoller{fds: make(map[int]epollFD)}
}

func (p *epollPoller) init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	p.epfd = fd
	return nil
}

func (p *epollPoller) close() error {
	return unix.Close(p.epfd)
}

func (p *epollPoller) add(fd int, events EventMask, cb func(EventMask)) error {
	if fd < 0 {
		return ErrInvalidFD
	}
	if _, ok := p.fds[fd]; ok {
		return ErrFDAlreadyRegistered
	}
	ev := &unix.EpollEvent{Events: eventsToEpoll(events), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
		return err
	}
	p.fds[fd] = epollFD{cb: cb, events: events}
	return nil
}

func (p *epollPoller) modify(fd int, events EventMask) error {
	info, ok := p.fds[fd]
	if !ok {
		return ErrFDNotRegistered
	}
	ev := &unix.EpollEvent{Events: eventsToEpoll(events), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev); err != nil {
		return err
	}
	info.events = events
	p.fds[fd] = info
	return nil
}

func (p *epollPoller) remove(fd int) error {
	if _, ok := p.fds[fd]; !ok {
		return ErrFDNotRegistered
	}
	delete(p.fds, fd)
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) poll(timeoutMs int) (int, error) {
	n, err := unix.EpollWait(p.epfd, p.eventBuf[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Fd)
		if info, ok := p.fds[fd]; ok && info.cb != nil {
			info.cb(epollToEvents(p.eventBuf[i].Events))
		}
	}
	return n, nil
}

func eventsToEpoll(events EventMask) uint32 {
	var e uint32
	if events.Has(EventRead) {
		e |= unix.EPOLLIN
	}
	if events.Has(EventWrite) {
		e |= unix.EPOLLOUT
	}
	return e
}

func epollToEvents(e uint32) EventMask {
	var m EventMask
	if e&unix.EPOLLIN != 0 {
		m |= EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		m |= EventWrite
	}
	if e&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
		m |= EventError
	}
	return m
}
