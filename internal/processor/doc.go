// Package processor contains the front-end session logic. It wires the
// content provider, cache and orchestrators together and drives the
// conjugation, quiz and story modes from the command line. This package
// serves as the main coordinator between all other components.
package processor
