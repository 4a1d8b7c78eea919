// Package storage holds the only state ghbot keeps between runs: the
// append-only unfollow log.
//
// Each successful unfollow appends "login\n". The file is never rewritten,
// so it accumulates across runs. Writes are mutex-guarded even though
// mutating batches are sequential.
//
// Usage:
//
//	log, err := storage.OpenUnfollowLog("unfollowed_users.txt")
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//	log.Append("octocat")
package storage
