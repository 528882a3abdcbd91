/*
Package filesystem reads batch sources from disk.

# Sources

[Collect] turns command-line paths into source items. Files are taken as
given; directories contribute their image files (by extension, one level
deep, sorted by name). Hidden entries are skipped.

# Retries

Reads go through [ReadFileWithRetry] and [ReadDirWithRetry], which retry
ESTALE (stale file handle) errors with exponential backoff. Source trees on
NFS mounts produce these when the server replaces a file between lookup and
read. Every other error is returned on the first attempt.

	data, err := filesystem.ReadFileWithRetry("/nfs/photos/a.jpg", filesystem.DefaultRetryConfig())

# Watching

[Watcher] reports image files created or rewritten in a directory. Events
are coalesced until the directory has been quiet for the debounce interval,
so a copy of many files becomes one batch.
*/
package filesystem
