// Package startup handles configuration loading and startup logging for
// the movie catalog service.
//
// Configuration is read from environment variables into an explicit Config
// value that is passed into constructors; nothing in the rest of the code
// reads the environment directly. The package also carries build-time
// version information injected via -ldflags.
package startup
