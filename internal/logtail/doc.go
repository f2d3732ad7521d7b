// Package logtail reads the tail of the debug log and decodes its entries.
//
// Read keeps a ring buffer of maxLines strings while scanning the file once,
// so memory stays bounded by the number of lines requested rather than the
// file size. Lines come back in file order.
//
//	lines, err := logtail.Read("flimmer-debug.log", 50)
//	for _, line := range lines {
//		if e, ok := logtail.Parse(line); ok {
//			fmt.Println(e.Time, e.Event, e.Detail())
//		}
//	}
//
// Parse understands the JSON-lines format written by internal/debuglog:
// every line is an object with "seq", "ts" and "event" keys plus arbitrary
// event fields. Anything else is reported as unparsed so callers can print
// it verbatim.
package logtail
