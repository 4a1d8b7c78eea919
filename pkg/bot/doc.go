// Package bot wires the engine to GitHub and runs the account-level
// workflows:
//
//   - UnfollowNonReciprocal: unfollow everyone who does not follow back,
//     recording each success in the unfollow log
//   - FollowFollowersOf: follow a user's followers, optionally starring
//   - FollowRandom: follow the owner of a random trending repository
//   - UnstarAll: remove every star
//   - TopFollowed: rank the following list by follower count
//
// Every mutating workflow runs sequentially through engine.RunBatch with
// the quota gate in front of each item. Only follower-count lookups use the
// worker pool.
//
// Usage:
//
//	b, err := bot.NewFromConfig(cfg, log)
//	if err != nil {
//	    return err
//	}
//	report, err := b.UnfollowNonReciprocal(ctx)
package bot
