// Package logger wraps zap with a global sugared logger and context helpers.
//
// Components receive a context and pull their logger from it, so a name or
// key/value pairs attached once (WithName, WithKV) follow every line logged
// further down the call chain.
package logger
