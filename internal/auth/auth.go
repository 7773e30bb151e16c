// Package auth keeps a local account registry and the active sign-in session
// on disk, standing in for a hosted identity provider.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/pulseboard/internal/utils"
)

// User is the signed-in identity surfaced to the rest of the app.
type User struct {
	ID          string `yaml:"id"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
}

// Provider is the identity boundary: sign-up, sign-in/out, the current user,
// and change notification.
type Provider interface {
	SignUp(email, password, displayName string) (User, error)
	SignIn(email, password string) (User, error)
	SignOut() error
	Current() (User, bool)
	OnChange(func(*User))
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with that email already exists")
)

type account struct {
	User User   `yaml:"user"`
	Salt string `yaml:"salt"`
	Hash string `yaml:"hash"`
}

type store struct {
	Accounts []account `yaml:"accounts"`
	// Active holds the signed-in user ID, empty when signed out.
	Active string `yaml:"active"`
}

// FileProvider persists accounts and the active session in one YAML file
// under the app's config directory.
type FileProvider struct {
	mu        sync.Mutex
	path      string
	data      store
	listeners []func(*User)
}

// NewFileProvider loads (or initializes) the store at dir/accounts.yaml.
func NewFileProvider(dir string) (*FileProvider, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create auth dir: %w", err)
	}
	p := &FileProvider{path: filepath.Join(dir, "accounts.yaml")}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p.data); err != nil {
		return nil, fmt.Errorf("parse accounts: %w", err)
	}
	return p, nil
}

func (p *FileProvider) SignUp(email, password, displayName string) (User, error) {
	u, err := p.signUp(email, password, displayName)
	if err != nil {
		return User{}, err
	}
	p.notify(&u)
	return u, nil
}

func (p *FileProvider) signUp(email, password, displayName string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	for _, a := range p.data.Accounts {
		if a.User.Email == email {
			return User{}, ErrEmailTaken
		}
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return User{}, fmt.Errorf("generate salt: %w", err)
	}
	u := User{ID: uuid.NewString(), Email: email, DisplayName: displayName}
	p.data.Accounts = append(p.data.Accounts, account{
		User: u,
		Salt: hex.EncodeToString(salt),
		Hash: hashPassword(password, salt),
	})
	p.data.Active = u.ID
	if err := p.save(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (p *FileProvider) SignIn(email, password string) (User, error) {
	u, err := p.signIn(email, password)
	if err != nil {
		return User{}, err
	}
	p.notify(&u)
	return u, nil
}

func (p *FileProvider) signIn(email, password string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range p.data.Accounts {
		if a.User.Email != email {
			continue
		}
		salt, err := hex.DecodeString(a.Salt)
		if err != nil || hashPassword(password, salt) != a.Hash {
			return User{}, ErrInvalidCredentials
		}
		p.data.Active = a.User.ID
		if err := p.save(); err != nil {
			return User{}, err
		}
		return a.User, nil
	}
	return User{}, ErrInvalidCredentials
}

func (p *FileProvider) SignOut() error {
	changed, err := p.signOut()
	if err != nil || !changed {
		return err
	}
	p.notify(nil)
	return nil
}

func (p *FileProvider) signOut() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.data.Active == "" {
		return false, nil
	}
	p.data.Active = ""
	if err := p.save(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *FileProvider) Current() (User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.data.Accounts {
		if a.User.ID == p.data.Active && p.data.Active != "" {
			return a.User, true
		}
	}
	return User{}, false
}

// OnChange registers a listener invoked with the new user on sign-in and nil
// on sign-out. Listeners run synchronously but outside the provider's lock,
// so they may call back into the provider.
func (p *FileProvider) OnChange(fn func(*User)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *FileProvider) notify(u *User) {
	p.mu.Lock()
	fns := append([]func(*User){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}

func (p *FileProvider) save() error {
	out, err := yaml.Marshal(&p.data)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	if err := os.WriteFile(p.path, out, 0o600); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return nil
}

func hashPassword(password string, salt []byte) string {
	h := sha256.Sum256(append(salt, []byte(password)...))
	return hex.EncodeToString(h[:])
}
