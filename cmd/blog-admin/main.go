// Package main is the entry point for the blogging API admin CLI.
// It seeds the permission registry, manages users, and edits role and
// permission grants directly against the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/config"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/pkg/crypto"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository/sqlstore"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Blogging API Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "seed":
		runOrDie(cmdSeed)

	case "create-user":
		runOrDie(cmdCreateUser)

	case "assign-role":
		runOrDie(cmdAssignRole)

	case "grant":
		runOrDie(cmdGrant)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// env is the shared handle a subcommand works against.
type env struct {
	ctx         context.Context
	repos       *repository.Repositories
	permissions *service.PermissionService
	hasher      crypto.Hasher
}

func runOrDie(cmd func(e *env, args []string) error) {
	ctx := context.Background()

	cfg := config.MustLoad(os.Getenv("BLOG_CONFIG"))
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	db, err := sqlstore.NewDB(ctx, sqlstore.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		BusyTimeout:     cfg.Database.BusyTimeout,
		JournalMode:     cfg.Database.JournalMode,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	repos := sqlstore.NewRepositories(db)
	e := &env{
		ctx:         ctx,
		repos:       repos,
		permissions: service.NewPermissionService(repos, logger),
		hasher:      crypto.NewBcryptHasher(cfg.Token.BcryptCost),
	}

	if err := cmd(e, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cmdSeed inserts every registry permission and the built-in roles.
// Re-running is safe: existing rows are left alone.
func cmdSeed(e *env, _ []string) error {
	slugs := make([]string, 0, len(auth.Registry))
	for slug := range auth.Registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		parts := strings.Split(slug, ".")
		input := service.CreatePermissionInput{
			Name:   parts[1] + " " + parts[2],
			Slug:   slug,
			Module: parts[1],
		}
		if _, err := e.permissions.CreatePermission(e.ctx, input); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return err
		}
		fmt.Printf("permission %s\n", slug)
	}

	roles := []service.CreateRoleInput{
		{Name: "Administrator", Slug: auth.RoleAdmin, Description: "Full access to everything"},
		{Name: "Editor", Slug: "editor", Description: "Writes and publishes posts"},
		{Name: "Moderator", Slug: "moderator", Description: "Moderates comments"},
	}
	for _, input := range roles {
		if _, err := e.permissions.CreateRole(e.ctx, input); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return err
		}
		fmt.Printf("role %s\n", input.Slug)
	}

	// Default grants for the non-admin roles. Admin needs none: the role
	// slug alone bypasses permission checks.
	grants := map[string][]string{
		"editor": {
			auth.PermPostsCreate, auth.PermPostsEdit, auth.PermPostsDelete,
			auth.PermPostsPublish, auth.PermCommentsCreate, auth.PermMediaUpload,
		},
		"moderator": {
			auth.PermCommentsCreate, auth.PermCommentsModerate, auth.PermCommentsDelete,
		},
	}
	for roleSlug, permSlugs := range grants {
		role, err := e.repos.Role.GetBySlug(e.ctx, roleSlug)
		if err != nil {
			return err
		}
		for _, slug := range permSlugs {
			perm, err := e.repos.Permission.GetBySlug(e.ctx, slug)
			if err != nil {
				return err
			}
			if err := e.permissions.GrantPermissionToRole(e.ctx, role.ID, perm.ID); err != nil {
				return err
			}
		}
	}

	fmt.Println("seed complete")
	return nil
}

func cmdCreateUser(e *env, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "unique username")
	email := fs.String("email", "", "unique email")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", "", "optional role slug to assign")
	fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("username, email, and password are required")
	}

	hash, err := e.hasher.Hash(*password)
	if err != nil {
		return err
	}
	user := domain.NewUser(*username, *email, hash)
	if err := e.repos.User.Add(e.ctx, user); err != nil {
		return err
	}
	fmt.Printf("user %d (%s)\n", user.ID, user.Username)

	if *role != "" {
		r, err := e.repos.Role.GetBySlug(e.ctx, *role)
		if err != nil {
			return err
		}
		if err := e.permissions.AssignRole(e.ctx, user.ID, r.ID); err != nil {
			return err
		}
		fmt.Printf("assigned role %s\n", *role)
	}
	return nil
}

func cmdAssignRole(e *env, args []string) error {
	fs := flag.NewFlagSet("assign-role", flag.ExitOnError)
	userID := fs.Int64("user-id", 0, "user id")
	role := fs.String("role", "", "role slug")
	remove := fs.Bool("remove", false, "unassign instead of assign")
	fs.Parse(args)

	if *userID == 0 || *role == "" {
		return fmt.Errorf("user-id and role are required")
	}

	r, err := e.repos.Role.GetBySlug(e.ctx, *role)
	if err != nil {
		return err
	}
	if *remove {
		return e.permissions.UnassignRole(e.ctx, *userID, r.ID)
	}
	return e.permissions.AssignRole(e.ctx, *userID, r.ID)
}

func cmdGrant(e *env, args []string) error {
	fs := flag.NewFlagSet("grant", flag.ExitOnError)
	userID := fs.Int64("user-id", 0, "user id")
	slug := fs.String("permission", "", "permission slug")
	revoke := fs.Bool("revoke", false, "record an explicit revocation instead of a grant")
	remove := fs.Bool("remove", false, "remove the direct grant row entirely")
	fs.Parse(args)

	if *userID == 0 || *slug == "" {
		return fmt.Errorf("user-id and permission are required")
	}

	perm, err := e.repos.Permission.GetBySlug(e.ctx, *slug)
	if err != nil {
		return err
	}
	if *remove {
		return e.permissions.RemoveUserGrant(e.ctx, *userID, perm.ID)
	}
	return e.permissions.SetUserGrant(e.ctx, *userID, perm.ID, !*revoke)
}

func printUsage() {
	fmt.Println(`Blogging API Admin CLI

Usage:
  blog-admin <command> [arguments]

Commands:
  seed         Insert the registry permissions and built-in roles
  create-user  Create a user (--username --email --password [--role])
  assign-role  Assign or remove a role (--user-id --role [--remove])
  grant        Set or remove a direct permission grant
               (--user-id --permission [--revoke] [--remove])
  version      Print version information
  help         Show this help message

Environment Variables:
  BLOG_CONFIG  Path to the YAML config file (optional)

Examples:
  blog-admin seed
  blog-admin create-user --username admin --email admin@example.com --password secret123 --role admin
  blog-admin assign-role --user-id 3 --role editor
  blog-admin grant --user-id 3 --permission Permissions.Posts.Publish --revoke`)
}
