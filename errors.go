package evdispatch

// Construction preconditions panic rather than returning an error: an
// onEvent callback is structural (there is no sane default), so a
// misconfigured Dispatcher should fail loudly and immediately rather than
// thread a constructor error return through every caller.
const panicNilOnEvent = "evdispatch: onEvent must not be nil"

const panicNilLoop = "evdispatch: loop must not be nil"
