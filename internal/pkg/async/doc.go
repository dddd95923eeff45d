// Package async provides a single-assignment promise. A promise settles at most
// once, either resolved with a value or rejected with an error, and any number of
// goroutines may wait for the outcome.
package async
