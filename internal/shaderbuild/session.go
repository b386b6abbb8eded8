// Package shaderbuild compiles the renderer's WGSL shaders to SPIR-V ahead
// of time.
//
// A Session owns the compiler settings for one build step. It is passed
// explicitly to whoever compiles and is reference counted: the build step
// opens it, workers Acquire and Release it, and the final Release closes it.
// Compiling through a closed session fails with ErrClosed.
//
//	s := shaderbuild.Open(shaderbuild.WithDebug(true))
//	defer s.Release()
//	results, err := s.Build(ctx, shaderbuild.EmbeddedSources(), "out/shaders")
package shaderbuild

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

var (
	// ErrClosed is returned when a session is used after its last Release.
	ErrClosed = errors.New("shaderbuild: session closed")

	// ErrEmptySource is returned for a shader with no WGSL text.
	ErrEmptySource = errors.New("shaderbuild: empty shader source")
)

// Option configures a Session.
type Option func(*Session)

// WithDebug emits OpName and OpLine debug info into the SPIR-V.
func WithDebug(debug bool) Option {
	return func(s *Session) { s.opts.Debug = debug }
}

// WithValidation toggles IR validation before code generation. On by default.
func WithValidation(validate bool) Option {
	return func(s *Session) { s.opts.Validate = validate }
}

// WithSPIRVVersion selects the SPIR-V version to emit. Defaults to 1.3.
func WithSPIRVVersion(v spirv.Version) Option {
	return func(s *Session) { s.opts.SPIRVVersion = v }
}

// WithLogger sets the logger for compile progress. Nil keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is a reference-counted compiler handle. The zero value is not
// usable; create one with Open.
type Session struct {
	opts naga.CompileOptions
	log  *slog.Logger

	mu       sync.Mutex
	refs     int
	compiled int
}

// Open returns a session holding one reference.
func Open(opts ...Option) *Session {
	s := &Session{
		opts: naga.DefaultOptions(),
		log:  slog.New(slog.DiscardHandler),
		refs: 1,
	}
	for _, o := range opts {
		o(s)
	}
	s.log.Debug("shaderbuild: session opened",
		"spirv", fmt.Sprintf("%d.%d", s.opts.SPIRVVersion.Major, s.opts.SPIRVVersion.Minor), "debug", s.opts.Debug, "validate", s.opts.Validate)
	return s
}

// Acquire adds a reference. It fails once the session has closed.
func (s *Session) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return ErrClosed
	}
	s.refs++
	return nil
}

// Release drops a reference. The last Release closes the session.
// Releasing a closed session returns ErrClosed.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return ErrClosed
	}
	s.refs--
	if s.refs == 0 {
		s.log.Debug("shaderbuild: session closed", "compiled", s.compiled)
	}
	return nil
}

// Refs reports the number of live references.
func (s *Session) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Closed reports whether the last reference has been released.
func (s *Session) Closed() bool { return s.Refs() == 0 }

// Compiled reports how many shaders this session has compiled successfully.
func (s *Session) Compiled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compiled
}

// Compile translates one WGSL source to a SPIR-V blob. The caller must hold
// a reference for the duration of the call.
func (s *Session) Compile(name, wgsl string) ([]byte, error) {
	if s.Closed() {
		return nil, ErrClosed
	}
	if wgsl == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, name)
	}

	blob, err := naga.CompileWithOptions(wgsl, s.opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	s.mu.Lock()
	s.compiled++
	s.mu.Unlock()
	s.log.Debug("shaderbuild: compiled", "shader", name, "bytes", len(blob))
	return blob, nil
}
