// Package core owns the application state of the quiz server.
//
// It sits between the transport layer and the pure packages: web handlers and
// CLI commands call into [Service], which keeps the cached sheet records,
// runs quiz sessions and forwards weak-list and preference changes to their
// stores.
//
// # State
//
// The record cache is replaced wholesale on every successful [Service.Reload];
// readers keep seeing the previous snapshot until the swap, and a failed
// reload leaves it untouched. Concurrent reloads share one fetch.
//
// Quiz sessions live in memory only. Each one is a fixed list of questions
// built by quiz.BuildList when the session starts, plus the choices clicked
// so far. Sessions are dropped after the configured TTL.
//
// # Answering
//
// [Service.Answer] checks a choice with quiz.IsCorrect. A wrong choice adds
// the question to the weak list unless an item with the same id, subject and
// question text is already there. A question may be answered more than once;
// only the first choice counts toward the session score.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// category has a support code:
//
//   - FEED001-FEED003: feed fetch and decode failures
//   - STORE001-STORE002: weak list and preference storage
//   - QUIZ001-QUIZ005: sessions, question positions, choices, subjects, order
//   - WEAK001: weak list positions
//   - RATE001: rate limiting
//   - REQ001-REQ003: cancelled, timed out or malformed requests
package core
