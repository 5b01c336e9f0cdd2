// Package driving provides interfaces consumed by front-ends (primary/inbound ports).
package driving
