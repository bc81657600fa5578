// Package seed loads schedule plans and user accounts from a YAML file and
// writes them to the store with idempotent upserts.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/cryptox"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/server/models"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
	"gopkg.in/yaml.v3"
)

// File is the seed document.
//
//	plans:
//	  - name: standard
//	    days:
//	      - {day_of_week: 1, expected_hours: 8}
//	users:
//	  - {id: 7, name: Ana, pin: "1234", plan: standard}
//	  - {id: 1, name: Root, username: root, password: s3cret, role: ADMIN}
type File struct {
	Plans []attendance.SchedulePlan `yaml:"plans"`
	Users []User                    `yaml:"users"`
}

type User struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	PIN      string `yaml:"pin"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Plan     string `yaml:"plan"`
}

// Result counts what Apply wrote.
type Result struct {
	Plans int
	Users int
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("%w: seed: %v", common.ErrInvalidInput, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}

// Validate checks the document before anything is written.
func (f *File) Validate() error {
	names := make(map[string]bool, len(f.Plans))
	for i := range f.Plans {
		p := &f.Plans[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: plan %q declared twice", common.ErrInvalidInput, p.Name)
		}
		names[p.Name] = true
	}

	ids := make(map[int64]bool, len(f.Users))
	for _, u := range f.Users {
		if u.ID <= 0 {
			return fmt.Errorf("%w: user %q: id must be positive", common.ErrInvalidInput, u.Name)
		}
		if ids[u.ID] {
			return fmt.Errorf("%w: user %d declared twice", common.ErrInvalidInput, u.ID)
		}
		ids[u.ID] = true

		switch u.role() {
		case common.RoleAdmin:
			if u.Username == "" || u.Password == "" {
				return fmt.Errorf("%w: admin %d needs username and password", common.ErrInvalidInput, u.ID)
			}
		case common.RoleEmployee:
			if u.PIN == "" {
				return fmt.Errorf("%w: user %d needs a pin", common.ErrInvalidInput, u.ID)
			}
		default:
			return fmt.Errorf("%w: user %d: unknown role %q", common.ErrInvalidInput, u.ID, u.Role)
		}
	}
	return nil
}

func (u User) role() string {
	if u.Role == "" {
		return common.RoleEmployee
	}
	return strings.ToUpper(u.Role)
}

// Apply writes the plans and then the users in one transaction. Plans
// referenced by users but not declared in the file must already exist.
func Apply(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, f *File) (Result, error) {
	var res Result

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		plans := rm.Schedules(tx)
		users := rm.Users(tx)

		planIDs := make(map[string]int64, len(f.Plans))
		for i := range f.Plans {
			p := f.Plans[i]
			id, err := plans.Upsert(ctx, &p)
			if err != nil {
				return fmt.Errorf("plan %q: %w", p.Name, err)
			}
			planIDs[p.Name] = id
			res.Plans++
		}

		for _, u := range f.Users {
			m := u.model()
			if u.Plan != "" {
				id, ok := planIDs[u.Plan]
				if !ok {
					p, err := plans.GetByName(ctx, u.Plan)
					if err != nil {
						if errors.Is(err, common.ErrorNotFound) {
							return fmt.Errorf("%w: user %d: unknown plan %q", common.ErrInvalidInput, u.ID, u.Plan)
						}
						return err
					}
					id = p.ID
					planIDs[u.Plan] = id
				}
				m.SchedulePlanID = &id
			}
			if err := users.Upsert(ctx, m); err != nil {
				return fmt.Errorf("user %d: %w", u.ID, err)
			}
			res.Users++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (u User) model() *models.User {
	m := &models.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.role(),
	}
	if u.PIN != "" {
		m.PINHash = cryptox.HashSecret(u.PIN)
	}
	if u.Password != "" {
		m.PasswordHash = cryptox.HashSecret(u.Password)
	}
	return m
}
