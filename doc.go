// Package parley is a dialogue flow engine for games and interactive
// fiction. Dialogues are directed graphs of typed nodes (text lines,
// player choices, script branches, function calls, nested
// sub-dialogues) stored as JSON or YAML. An Engine loads graphs and
// hands out sessions; each session walks its graph, evaluates the
// embedded scripting language against local and global variables, and
// emits line and choice events for the host to present.
//
// Minimal usage:
//
//	engine, err := parley.New("./dialogues")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess, err := engine.Start("intro")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for !sess.Finished() {
//		events, err := sess.Advance()
//		// present events, call sess.Select(option) on choices
//		_ = events
//		_ = err
//	}
package parley
