package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"timestrap/internal/errors"
	"timestrap/internal/repository/sqlstore"
)

// SeedFile lists the employees and projects to load into the database
//
//	employees:
//	  - id: E001
//	    name: Ada Lovelace
//	projects: [Apollo, Gemini]
type SeedFile struct {
	Employees []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"employees"`
	Projects []string `yaml:"projects"`
}

// SeedCommand loads employees and projects from a YAML file
type SeedCommand struct {
	app *App
}

// NewSeedCommand creates a new seed command handler
func NewSeedCommand(app *App) *SeedCommand {
	return &SeedCommand{app: app}
}

// Execute seeds the database from the file named by args[0]
func (c *SeedCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewValidationError("usage: timestrap seed --file seed.yaml", nil)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.NewInvalidInputError("file", args[0], err.Error())
	}
	var seed SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid seed file: %v", err), err)
	}

	store, err := c.app.Store(ctx)
	if err != nil {
		return err
	}
	v := c.app.validator()

	ctx, cancel := context.WithTimeout(ctx, c.app.config.GetWriteTimeout())
	defer cancel()
	err = store.WithTx(ctx, func(repo sqlstore.Repository) error {
		for i, e := range seed.Employees {
			code := strings.TrimSpace(e.ID)
			name := strings.TrimSpace(e.Name)
			if !v.IsValidEmployeeCode(code) || name == "" {
				return errors.NewInvalidInputError(fmt.Sprintf("employees[%d]", i), e.ID, "needs an id and a name")
			}
			if err := repo.UpsertEmployee(ctx, &sqlstore.Employee{Code: code, Name: name}); err != nil {
				return err
			}
		}
		for _, name := range seed.Projects {
			if strings.TrimSpace(name) == "" {
				continue
			}
			if _, err := repo.GetOrCreateProject(ctx, strings.TrimSpace(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Seeded %d employee(s) and %d project(s).\n", len(seed.Employees), len(seed.Projects))
	return nil
}
