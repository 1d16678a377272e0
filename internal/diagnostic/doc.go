// Package diagnostic decodes cargo's JSON message stream and turns compiler
// messages into position-anchored annotations.
//
// [ParseLine] accepts one line of `cargo clippy --message-format=json`
// output. Lines that are not JSON, are not compiler messages, or carry no
// diagnostic code are rejected without an error: cargo interleaves build
// chatter with lint findings and those lines are simply skipped.
//
// [NewAnnotation] anchors a record at its primary span. A record without a
// primary span cannot be attached to a file position, so it fails with
// [ErrNoPrimarySpan] instead of being skipped.
package diagnostic
