package api

// NewStream exports newStream for testing.
var NewStream = newStream
