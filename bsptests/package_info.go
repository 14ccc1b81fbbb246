// Package bsptests contains the conformance scenarios for build servers, and the machinery that
// drives them: session lifecycle, bounded request execution, result comparison, and the
// TestClient that ties those together.
package bsptests
