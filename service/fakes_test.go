package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/entity"
	"task-manager/pkg/logger"
	"task-manager/repository"
)

// In-memory repository fakes for service-level scenario tests.

func testLogger() *logger.Logger {
	log, err := logger.New("error", "development")
	if err != nil {
		panic(err)
	}
	return log
}

type fakeOTPRepo struct {
	records []*entity.OTP
	nextID  int64
	failOn  string
}

func (f *fakeOTPRepo) Create(otp *entity.OTP) (*entity.OTP, error) {
	if f.failOn == "create" {
		return nil, fmt.Errorf("create failed")
	}
	f.nextID++
	stored := *otp
	stored.ID = f.nextID
	f.records = append(f.records, &stored)
	return &stored, nil
}

func (f *fakeOTPRepo) GetActiveByMobileNumber(mobileNumber int64, now int64) (*entity.OTP, error) {
	var newest *entity.OTP
	for _, rec := range f.records {
		if rec.MobileNumber != mobileNumber || rec.IsUsed || rec.ExpiresAt <= now {
			continue
		}
		if newest == nil || rec.CreatedAt > newest.CreatedAt {
			newest = rec
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (f *fakeOTPRepo) IncrementAttempts(id int64) error {
	for _, rec := range f.records {
		if rec.ID == id {
			rec.Attempts++
			return nil
		}
	}
	return fmt.Errorf("otp not found")
}

func (f *fakeOTPRepo) MarkAsUsed(id int64) error {
	for _, rec := range f.records {
		if rec.ID == id {
			rec.IsUsed = true
			return nil
		}
	}
	return fmt.Errorf("otp not found")
}

func (f *fakeOTPRepo) DeleteByID(id int64) error {
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeOTPRepo) DeleteExpired(now int64) (int64, error) {
	var kept []*entity.OTP
	var deleted int64
	for _, rec := range f.records {
		if rec.ExpiresAt <= now {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return deleted, nil
}

type fakeVerificationRepo struct {
	records []*entity.PhoneVerification
	nextID  int64
}

func (f *fakeVerificationRepo) Create(v *entity.PhoneVerification) (*entity.PhoneVerification, error) {
	f.nextID++
	stored := *v
	stored.ID = f.nextID
	f.records = append(f.records, &stored)
	return &stored, nil
}

func (f *fakeVerificationRepo) GetActive(mobileNumber int64, token string, now int64) (*entity.PhoneVerification, error) {
	for _, rec := range f.records {
		if rec.MobileNumber == mobileNumber && rec.VerificationToken == token && !rec.IsUsed && rec.ExpiresAt > now {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVerificationRepo) DeleteByMobileNumber(mobileNumber int64) error {
	var kept []*entity.PhoneVerification
	for _, rec := range f.records {
		if rec.MobileNumber != mobileNumber {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeVerificationRepo) MarkAsUsed(id int64) error {
	for _, rec := range f.records {
		if rec.ID == id {
			rec.IsUsed = true
			return nil
		}
	}
	return fmt.Errorf("verification not found")
}

func (f *fakeVerificationRepo) DeleteExpired(now int64) (int64, error) {
	var kept []*entity.PhoneVerification
	var deleted int64
	for _, rec := range f.records {
		if rec.ExpiresAt <= now {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return deleted, nil
}

type fakeUserRepo struct {
	users     []*entity.User
	nextID    int64
	createErr error
}

func (f *fakeUserRepo) Create(user *entity.User) (*entity.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.users = append(f.users, &stored)
	return &stored, nil
}

func (f *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByMobileNumber(mobileNumber int64) (*entity.User, error) {
	for _, u := range f.users {
		if u.MobileNumber == mobileNumber && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.EmailAddress == email && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsWithEmailOrMobile(email string, mobileNumber int64) (bool, error) {
	for _, u := range f.users {
		if u.EmailAddress == email || u.MobileNumber == mobileNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) EmailTaken(email string, excludeID int64) (bool, error) {
	for _, u := range f.users {
		if u.EmailAddress == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) MobileTaken(mobileNumber int64, excludeID int64) (bool, error) {
	for _, u := range f.users {
		if u.MobileNumber == mobileNumber && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(user *entity.User) (*entity.User, error) {
	for i, u := range f.users {
		if u.ID == user.ID && u.IsActive {
			stored := *user
			f.users[i] = &stored
			copied := stored
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUserRepo) SoftDelete(id int64, now int64) (bool, error) {
	for _, u := range f.users {
		if u.ID == id && u.IsActive {
			u.IsActive = false
			u.UpdatedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) List() ([]entity.User, error) {
	var users []entity.User
	for _, u := range f.users {
		if u.IsActive {
			users = append(users, *u)
		}
	}
	return users, nil
}

type fakeRateLimitRepo struct {
	cooldowns map[int64]bool
}

func newFakeRateLimitRepo() *fakeRateLimitRepo {
	return &fakeRateLimitRepo{cooldowns: make(map[int64]bool)}
}

func (f *fakeRateLimitRepo) InCooldown(_ context.Context, mobileNumber int64) (bool, error) {
	return f.cooldowns[mobileNumber], nil
}

func (f *fakeRateLimitRepo) StartCooldown(_ context.Context, mobileNumber int64, _ time.Duration) error {
	f.cooldowns[mobileNumber] = true
	return nil
}

func (f *fakeRateLimitRepo) ClearCooldown(_ context.Context, mobileNumber int64) error {
	delete(f.cooldowns, mobileNumber)
	return nil
}

type fakeSMSSender struct {
	fail bool
	sent []string
}

func (f *fakeSMSSender) Send(_ context.Context, _ int64, body string) error {
	if f.fail {
		return fmt.Errorf("provider unavailable")
	}
	f.sent = append(f.sent, body)
	return nil
}

type fakeTaskRepo struct {
	tasks  []*entity.Task
	nextID int64
}

func (f *fakeTaskRepo) Create(task *entity.Task) (*entity.Task, error) {
	f.nextID++
	stored := *task
	stored.ID = f.nextID
	f.tasks = append(f.tasks, &stored)
	return &stored, nil
}

func (f *fakeTaskRepo) GetByID(id int64) (*entity.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) List(userID int64, query *repository.TaskQuery) ([]entity.Task, error) {
	var tasks []entity.Task
	for _, t := range f.tasks {
		if t.UserID != userID || !t.IsActive {
			continue
		}
		if query != nil {
			if query.Status != nil && t.Status != *query.Status {
				continue
			}
			if query.Priority != nil && t.Priority != *query.Priority {
				continue
			}
			if query.IsCompleted != nil && t.IsCompleted != *query.IsCompleted {
				continue
			}
			if query.StartFrom != nil && t.StartTaskTime < *query.StartFrom {
				continue
			}
			if query.EndBefore != nil && t.EndTaskTime > *query.EndBefore {
				continue
			}
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Update(task *entity.Task) (*entity.Task, error) {
	for i, t := range f.tasks {
		if t.ID == task.ID && t.IsActive {
			stored := *task
			f.tasks[i] = &stored
			copied := stored
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("task not found")
}

func (f *fakeTaskRepo) SoftDelete(id int64, now int64) (bool, error) {
	for _, t := range f.tasks {
		if t.ID == id && t.IsActive {
			t.IsActive = false
			t.UpdatedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) Stats(userID int64) (*entity.TaskStats, error) {
	stats := &entity.TaskStats{}
	for _, t := range f.tasks {
		if t.UserID != userID || !t.IsActive {
			continue
		}
		stats.TotalTasks++
		if t.IsCompleted {
			stats.CompletedTasks++
		}
		switch t.Status {
		case entity.StatusPending:
			stats.PendingTasks++
		case entity.StatusInProgress:
			stats.InProgressTasks++
		case entity.StatusCancelled:
			stats.CancelledTasks++
		}
	}
	return stats, nil
}

func (f *fakeTaskRepo) Overdue(userID int64, now int64) ([]entity.Task, error) {
	var tasks []entity.Task
	for _, t := range f.tasks {
		if t.UserID == userID && t.IsActive && !t.IsCompleted && t.EndTaskTime < now {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

type fakeAPIKeyRepo struct {
	keys   []*entity.APIKey
	nextID int64
}

func (f *fakeAPIKeyRepo) Create(key *entity.APIKey) (*entity.APIKey, error) {
	f.nextID++
	stored := *key
	stored.ID = f.nextID
	f.keys = append(f.keys, &stored)
	return &stored, nil
}

func (f *fakeAPIKeyRepo) List() ([]entity.APIKey, error) {
	var keys []entity.APIKey
	for _, k := range f.keys {
		keys = append(keys, *k)
	}
	return keys, nil
}

func (f *fakeAPIKeyRepo) ValidateAndTouch(key string, now int64) (*entity.APIKey, error) {
	for _, k := range f.keys {
		if k.Key == key && k.IsActive {
			k.LastUsed = &now
			copied := *k
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAPIKeyRepo) Deactivate(id int64) (bool, error) {
	for _, k := range f.keys {
		if k.ID == id {
			k.IsActive = false
			return true, nil
		}
	}
	return false, nil
}
