package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/data/repos"
	"github.com/wohnmatch/wohnmatch.api/notifiers"
)

type Notifier struct {
	matchRepo *repos.MatchRepo
	usersRepo *repos.UserRepo
	mailer    *notifiers.Mailer
}

func NewNotifier(mailer *notifiers.Mailer, matchRepo *repos.MatchRepo, usersRepo *repos.UserRepo) *Notifier {
	return &Notifier{
		matchRepo: matchRepo,
		usersRepo: usersRepo,
		mailer:    mailer,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	if err := n.notifyUsers(ctx); err != nil {
		slog.Error("notify users:", "error", err)
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := n.notifyUsers(ctx); err != nil {
					slog.Error("notify users:", "error", err)
				}
			}
		}
	}()
}

func (n *Notifier) notifyUsers(ctx context.Context) error {
	unnotified, err := n.matchRepo.GetUnnotifiedMatches(ctx)
	if err != nil {
		return errors.Wrap(err, "notify users: get unnotified matches")
	}
	if len(unnotified) == 0 {
		return nil
	}

	// Group matches by user, then send a single mail or a digest depending
	// on how many piled up since the last run.
	userMatches := make(map[uuid.UUID][]data.MatchWithListing)
	userIDs := make([]uuid.UUID, 0, len(unnotified))
	for _, match := range unnotified {
		if _, seen := userMatches[match.UserID]; !seen {
			userIDs = append(userIDs, match.UserID)
		}
		userMatches[match.UserID] = append(userMatches[match.UserID], match)
	}

	u, err := n.usersRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return errors.Wrap(err, "notify users: get users by IDs")
	}
	users := make(map[uuid.UUID]data.User)
	for _, user := range u {
		users[user.ID] = user
	}

	for userID, matches := range userMatches {
		user, ok := users[userID]
		if !ok {
			slog.Error("notify users: user not found", "userID", userID)
			continue
		}

		if len(matches) == 1 {
			mail, err := n.mailer.MatchEmail(user.Email, matches[0])
			if err != nil {
				slog.Error("notify users: create email", "userID", userID, "error", err)
				continue
			}
			if err = n.mailer.Send(mail); err != nil {
				slog.Error("notify users: send match notification", "userID", userID, "error", err)
				continue
			}
			if err = n.matchRepo.MarkNotified(ctx, []int64{matches[0].ID}, time.Now()); err != nil {
				slog.Error("notify users: mark match as notified", "userID", userID, "error", err)
			}
			continue
		}

		digest, err := n.mailer.DigestEmail(user.Email, matches)
		if err != nil {
			slog.Error("notify users: create digest email", "userID", userID, "error", err)
			continue
		}
		if err = n.mailer.Send(digest); err != nil {
			slog.Error("notify users: send digest notification", "userID", userID, "error", err)
			continue
		}

		matchIDs := make([]int64, 0, len(matches))
		for _, match := range matches {
			matchIDs = append(matchIDs, match.ID)
		}
		if err = n.matchRepo.MarkNotified(ctx, matchIDs, time.Now()); err != nil {
			slog.Error("failed to mark matches as notified", "userID", userID, "error", err)
		}
	}

	return nil
}
