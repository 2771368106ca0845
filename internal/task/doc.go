// Package task runs background work on a bounded queue drained by a pool of
// workers. Review sessions use it to write schedule states without waiting
// on storage: every write is a task whose outcome is reported through a
// Future.
package task
