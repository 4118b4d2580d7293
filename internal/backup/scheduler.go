package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const commandTimeout = 30 * time.Second

// Scheduler periodically commits the database file to the repository it
// lives in, amending and force-pushing when today's commit already
// exists so history carries one backup commit per day. The db file is
// treated as an opaque blob; nothing here touches record contents.
type Scheduler struct {
	repoDir  string
	dbPath   string
	branch   string
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(repoDir string, dbPath string, branch string, interval time.Duration) *Scheduler {
	if repoDir == "" {
		repoDir = "."
	}
	return &Scheduler{
		repoDir:  repoDir,
		dbPath:   dbPath,
		branch:   branch,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the commit loop until ctx is cancelled.
func (scheduler *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(scheduler.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := scheduler.CommitIfChanged(ctx); err != nil {
					log.Printf("backup commit failed: %v", err)
				}
			}
		}
	}()
}

// CommitIfChanged performs one backup pass: skip when the db file is
// unchanged, otherwise stage it and commit (amending same-day commits).
func (scheduler *Scheduler) CommitIfChanged(ctx context.Context) error {
	diff, err := scheduler.gitOutput(ctx, "diff", "--", scheduler.dbPath)
	if err != nil {
		return fmt.Errorf("git diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		log.Printf("no changes in %s, skipping commit", scheduler.dbPath)
		return nil
	}

	if err := scheduler.gitRun(ctx, "add", "--", scheduler.dbPath); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	today := scheduler.now().Format("2006-01-02")
	message := CommitMessage(scheduler.dbPath, today)

	lastSubject, err := scheduler.gitOutput(ctx, "log", "-1", "--pretty=%s")
	if err != nil {
		lastSubject = ""
	}

	if ShouldAmend(lastSubject, today) {
		if err := scheduler.gitRun(ctx, "commit", "--amend", "-m", message); err != nil {
			return fmt.Errorf("git commit --amend: %w", err)
		}
		if err := scheduler.gitRun(ctx, "push", "--force", "origin", scheduler.branch); err != nil {
			log.Printf("force push failed: %v", err)
		}
	} else {
		if err := scheduler.gitRun(ctx, "commit", "-m", message); err != nil {
			return fmt.Errorf("git commit: %w", err)
		}
		if err := scheduler.gitRun(ctx, "push", "origin", scheduler.branch); err != nil {
			log.Printf("push failed: %v", err)
		}
	}

	dbFile := filepath.Join(scheduler.repoDir, scheduler.dbPath)
	if err := copyFile(dbFile, dbFile+".bk"); err != nil {
		log.Printf("backup copy failed: %v", err)
	}
	return nil
}

// CommitMessage is the commit subject for a backup of dbPath on the
// given day.
func CommitMessage(dbPath string, today string) string {
	return fmt.Sprintf("Updated %s: %s", dbPath, today)
}

// ShouldAmend reports whether the previous commit already backs up the
// same day and should be amended instead of stacked.
func ShouldAmend(lastSubject string, today string) bool {
	return strings.Contains(lastSubject, today)
}

func (scheduler *Scheduler) gitRun(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	fullArgs := append([]string{"-C", scheduler.repoDir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...).Run()
}

func (scheduler *Scheduler) gitOutput(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	fullArgs := append([]string{"-C", scheduler.repoDir}, args...)
	output, err := exec.CommandContext(ctx, "git", fullArgs...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func copyFile(source string, destination string) error {
	contents, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	return os.WriteFile(destination, contents, 0o644)
}
