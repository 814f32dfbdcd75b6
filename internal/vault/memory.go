package vault

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Service implementation. It backs local mode and
// tests; the remote service sits behind the same interfaces.
type Memory struct {
	mu sync.RWMutex

	accounts map[string]string // username -> password
	sessions map[string]Session

	users map[string]User // keyed by lower-cased email
	teams map[string]Team // keyed by lower-cased name
	roles map[string]Role // keyed by lower-cased name
	nodes map[string]Node // keyed by lower-cased name

	teamMembers map[string]map[string]bool // team name -> emails
	roleMembers map[string]map[string]bool // role name -> emails

	audit   []AuditEvent
	backups []Backup
}

// MemoryOption configures a Memory service.
type MemoryOption func(*Memory)

// WithAccount seeds a login account.
func WithAccount(username, password string) MemoryOption {
	return func(m *Memory) {
		m.accounts[strings.ToLower(username)] = password
	}
}

// WithBackups seeds the backup store.
func WithBackups(backups ...Backup) MemoryOption {
	return func(m *Memory) {
		m.backups = append(m.backups, backups...)
	}
}

// NewMemory creates an in-memory vault service with a root node.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		accounts:    make(map[string]string),
		sessions:    make(map[string]Session),
		users:       make(map[string]User),
		teams:       make(map[string]Team),
		roles:       make(map[string]Role),
		nodes:       make(map[string]Node),
		teamMembers: make(map[string]map[string]bool),
		roleMembers: make(map[string]map[string]bool),
	}

	m.nodes["root"] = Node{ID: uuid.NewString(), Name: "root"}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// nodeIDLocked resolves a node name to its ID. Empty means root.
func (m *Memory) nodeIDLocked(name string) (string, error) {
	if name == "" {
		name = "root"
	}
	node, ok := m.nodes[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("node %q: %w", name, ErrNotFound)
	}
	return node.ID, nil
}

// Login implements Authenticator.
func (m *Memory) Login(ctx context.Context, username, password string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username = strings.ToLower(username)
	stored, ok := m.accounts[username]
	if !ok || stored != password {
		return Session{}, ErrUnauthorized
	}

	sess := Session{
		ID:       uuid.NewString(),
		Username: username,
		IssuedAt: time.Now(),
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

// Logout implements Authenticator.
func (m *Memory) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrUnauthorized
	}
	delete(m.sessions, sessionID)
	return nil
}

// AddUser implements Directory.
func (m *Memory) AddUser(ctx context.Context, email, name, nodeName string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := m.users[key]; ok {
		return User{}, fmt.Errorf("user %q: %w", email, ErrExists)
	}

	nodeID, err := m.nodeIDLocked(nodeName)
	if err != nil {
		return User{}, err
	}

	u := User{ID: uuid.NewString(), Email: key, Name: name, NodeID: nodeID}
	m.users[key] = u
	return u, nil
}

// RemoveUser implements Directory.
func (m *Memory) RemoveUser(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := m.users[key]; !ok {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	delete(m.users, key)

	for _, members := range m.teamMembers {
		delete(members, key)
	}
	for _, members := range m.roleMembers {
		delete(members, key)
	}
	return nil
}

// Users implements Directory.
func (m *Memory) Users(ctx context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// AddTeam implements Directory.
func (m *Memory) AddTeam(ctx context.Context, name, nodeName string) (Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.teams[key]; ok {
		return Team{}, fmt.Errorf("team %q: %w", name, ErrExists)
	}

	nodeID, err := m.nodeIDLocked(nodeName)
	if err != nil {
		return Team{}, err
	}

	t := Team{ID: uuid.NewString(), Name: key, NodeID: nodeID}
	m.teams[key] = t
	m.teamMembers[key] = make(map[string]bool)
	return t, nil
}

// RemoveTeam implements Directory.
func (m *Memory) RemoveTeam(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.teams[key]; !ok {
		return fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	delete(m.teams, key)
	delete(m.teamMembers, key)
	return nil
}

// Teams implements Directory.
func (m *Memory) Teams(ctx context.Context) ([]Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams := make([]Team, 0, len(m.teams))
	for _, t := range m.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// AddTeamUser implements Directory.
func (m *Memory) AddTeamUser(ctx context.Context, teamName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	team := strings.ToLower(teamName)
	user := strings.ToLower(email)

	if _, ok := m.teams[team]; !ok {
		return fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	if _, ok := m.users[user]; !ok {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if m.teamMembers[team][user] {
		return fmt.Errorf("user %q in team %q: %w", email, teamName, ErrExists)
	}
	m.teamMembers[team][user] = true
	return nil
}

// RemoveTeamUser implements Directory.
func (m *Memory) RemoveTeamUser(ctx context.Context, teamName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	team := strings.ToLower(teamName)
	user := strings.ToLower(email)

	if !m.teamMembers[team][user] {
		return fmt.Errorf("user %q in team %q: %w", email, teamName, ErrNotFound)
	}
	delete(m.teamMembers[team], user)
	return nil
}

// TeamUsers implements Directory.
func (m *Memory) TeamUsers(ctx context.Context, teamName string) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	team := strings.ToLower(teamName)
	members, ok := m.teamMembers[team]
	if !ok {
		return nil, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}

	users := make([]User, 0, len(members))
	for email := range members {
		if u, ok := m.users[email]; ok {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// AddRole implements Directory.
func (m *Memory) AddRole(ctx context.Context, name, nodeName string) (Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.roles[key]; ok {
		return Role{}, fmt.Errorf("role %q: %w", name, ErrExists)
	}

	nodeID, err := m.nodeIDLocked(nodeName)
	if err != nil {
		return Role{}, err
	}

	r := Role{ID: uuid.NewString(), Name: key, NodeID: nodeID}
	m.roles[key] = r
	m.roleMembers[key] = make(map[string]bool)
	return r, nil
}

// RemoveRole implements Directory.
func (m *Memory) RemoveRole(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.roles[key]; !ok {
		return fmt.Errorf("role %q: %w", name, ErrNotFound)
	}
	delete(m.roles, key)
	delete(m.roleMembers, key)
	return nil
}

// Roles implements Directory.
func (m *Memory) Roles(ctx context.Context) ([]Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roles := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// AssignRole implements Directory.
func (m *Memory) AssignRole(ctx context.Context, roleName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role := strings.ToLower(roleName)
	user := strings.ToLower(email)

	if _, ok := m.roles[role]; !ok {
		return fmt.Errorf("role %q: %w", roleName, ErrNotFound)
	}
	if _, ok := m.users[user]; !ok {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	m.roleMembers[role][user] = true
	return nil
}

// AddNode implements Directory.
func (m *Memory) AddNode(ctx context.Context, name, parentName string) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.nodes[key]; ok {
		return Node{}, fmt.Errorf("node %q: %w", name, ErrExists)
	}

	parentID, err := m.nodeIDLocked(parentName)
	if err != nil {
		return Node{}, err
	}

	n := Node{ID: uuid.NewString(), Name: key, ParentID: parentID}
	m.nodes[key] = n
	return n, nil
}

// RemoveNode implements Directory. The root node cannot be removed.
func (m *Memory) RemoveNode(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if key == "root" {
		return fmt.Errorf("node %q: cannot remove the root node", name)
	}
	if _, ok := m.nodes[key]; !ok {
		return fmt.Errorf("node %q: %w", name, ErrNotFound)
	}
	delete(m.nodes, key)
	return nil
}

// Nodes implements Directory.
func (m *Memory) Nodes(ctx context.Context) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}

// Record implements AuditLog. Zero ID and Time fields are filled in.
func (m *Memory) Record(ctx context.Context, ev AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	m.audit = append(m.audit, ev)
	return nil
}

// Query implements AuditLog. Results are time-ascending.
func (m *Memory) Query(ctx context.Context, q AuditQuery) ([]AuditEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AuditEvent
	for _, ev := range m.audit {
		if !q.Since.IsZero() && ev.Time.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && ev.Time.After(q.Until) {
			continue
		}
		if q.Actor != "" && !strings.EqualFold(ev.Actor, q.Actor) {
			continue
		}
		if q.Type != "" && ev.Type != q.Type {
			continue
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

// List implements BackupStore. Results are newest-first.
func (m *Memory) List(ctx context.Context) ([]Backup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	backups := make([]Backup, len(m.backups))
	copy(backups, m.backups)
	sort.Slice(backups, func(i, j int) bool { return backups[i].Created.After(backups[j].Created) })
	return backups, nil
}

// Get implements BackupStore.
func (m *Memory) Get(ctx context.Context, id string) (Backup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.backups {
		if b.ID == id {
			return b, nil
		}
	}
	return Backup{}, fmt.Errorf("backup %q: %w", id, ErrNotFound)
}

var _ Service = (*Memory)(nil)
