// Package engine is the paginated-fetch and batch-action core of ghbot.
//
// CollectAll walks a GitHub collection page by page. Executor applies one
// follow, unfollow, star or unstar and reports success only on 204.
// RunBatch drives an Executor over a list strictly one item at a time,
// consulting a quota gate and sleeping a fixed delay after each item.
// RunLookups is the one concurrent path: read-only follower counts on a
// fixed-size worker pool. NonReciprocal and TopNByFollowers derive views
// from collected lists.
//
// The engine has no globals. Clients, gates and loggers are passed in.
package engine
