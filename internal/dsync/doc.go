// Package dsync manages directory-sync connection configurations.
//
// # Response Envelope
//
// Unlike the other controllers, every operation here returns a
// Response[T] rather than raising an error:
//
//	res := ctrl.Directories.Get(ctx, id)
//	if res.Error != nil { ... } // Code carries the HTTP status
//
// Exactly one of Data and Error is populated. Validation failures map to
// 400, missing directories to 404, and license failures keep their own
// status.
//
// # Audit
//
// Successful mutations emit dsync.connection.{create,update,delete} events;
// reads emit dsync.connection.view. Deleting a directory that does not
// exist emits nothing.
package dsync
