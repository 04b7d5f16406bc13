package directory

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/cache"
	"github.com/opsdash/calgrid/internal/config"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
)

// Directory is the employee-directory collaborator: it authenticates
// credentials, resolves token subjects to employees, and lists the
// attendee picker's population.
type Directory interface {
	Close()
	BindUser(ctx context.Context, username, password string) (*Employee, error)
	LookupUserByAttr(ctx context.Context, attr, value string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	IntrospectToken(ctx context.Context, token, url, authHeader string) (bool, string, error)
}

type LDAPClient struct {
	cfg       config.LDAPConfig
	logger    zerolog.Logger
	conn      *ldap.Conn
	userCache *cache.Cache[string, *Employee]
	listCache *cache.Cache[string, []Employee]
}

func NewLDAPClient(cfg config.LDAPConfig, logger zerolog.Logger) (*LDAPClient, error) {
	l, err := dialLDAPAuto(cfg)
	if err != nil {
		logger.Error().Err(err).Str("url", cfg.URL).Msg("failed to dial LDAP")
		return nil, err
	}
	if cfg.BindDN != "" {
		if err := l.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			logger.Error().Err(err).Str("bind_dn", cfg.BindDN).Msg("initial bind failed")
			l.Close()
			return nil, err
		}
	}
	return &LDAPClient{
		cfg:       cfg,
		logger:    logger,
		conn:      l,
		userCache: cache.New[string, *Employee](cfg.CacheTTL),
		listCache: cache.New[string, []Employee](cfg.CacheTTL),
	}, nil
}

func (l *LDAPClient) Close() {
	if l.conn != nil {
		l.conn.Close()
	}
}

func (l *LDAPClient) BindUser(ctx context.Context, username, password string) (*Employee, error) {
	searchReq := ldap.NewSearchRequest(
		l.cfg.UserBaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, int(l.cfg.Timeout.Seconds()), false,
		fmt.Sprintf(l.cfg.UserFilter, ldap.EscapeFilter(username), ldap.EscapeFilter(username)),
		userAttrList(l.cfg),
		nil,
	)
	res, err := l.conn.SearchWithPaging(searchReq, 1)
	if err != nil {
		l.logger.Error().Err(err).
			Str("user_base_dn", l.cfg.UserBaseDN).
			Str("username", username).
			Msg("LDAP search failed in BindUser")
		return nil, errors.New("user not found")
	}
	if len(res.Entries) == 0 {
		l.logger.Debug().Str("username", username).Msg("user not found in BindUser search")
		return nil, errors.New("user not found")
	}
	entry := res.Entries[0]
	userDN := entry.DN

	userConn, err := dialLDAPAuto(l.cfg)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to dial LDAP for user bind")
		return nil, err
	}
	defer userConn.Close()
	if err := userConn.Bind(userDN, password); err != nil {
		l.logger.Debug().Err(err).Str("user_dn", userDN).Msg("user bind failed")
		return nil, err
	}

	return l.employeeFromEntry(entry), nil
}

func (l *LDAPClient) LookupUserByAttr(ctx context.Context, attr, value string) (*Employee, error) {
	attr = safeAttr(attr)
	key := attr + "=" + value
	if e, ok := l.userCache.Get(key); ok {
		return e, nil
	}
	searchReq := ldap.NewSearchRequest(
		l.cfg.UserBaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, int(l.cfg.Timeout.Seconds()), false,
		fmt.Sprintf("(%s=%s)", attr, ldap.EscapeFilter(value)),
		userAttrList(l.cfg),
		nil,
	)
	res, err := l.conn.Search(searchReq)
	if err != nil {
		l.logger.Error().Err(err).
			Str("attr", attr).
			Str("value", value).
			Str("user_base_dn", l.cfg.UserBaseDN).
			Msg("LDAP search failed in LookupUserByAttr")
		return nil, errors.New("user not found")
	}
	if len(res.Entries) == 0 {
		l.logger.Debug().Str("attr", attr).Str("value", value).Msg("user not found in LookupUserByAttr")
		return nil, errors.New("user not found")
	}
	e := l.employeeFromEntry(res.Entries[0])
	l.userCache.SetDefault(key, e)
	return e, nil
}

// ListEmployees returns every directory entry matching the employee
// filter, cached for the configured TTL. Backs the attendee picker.
func (l *LDAPClient) ListEmployees(ctx context.Context) ([]Employee, error) {
	if v, ok := l.listCache.Get("all"); ok {
		return v, nil
	}
	search := ldap.NewSearchRequest(
		l.cfg.UserBaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, int(l.cfg.Timeout.Seconds()), false,
		l.cfg.EmployeeFilter,
		userAttrList(l.cfg),
		nil,
	)
	res, err := l.conn.SearchWithPaging(search, 100)
	if err != nil {
		l.logger.Error().Err(err).
			Str("user_base_dn", l.cfg.UserBaseDN).
			Str("filter", l.cfg.EmployeeFilter).
			Msg("LDAP search failed in ListEmployees")
		return nil, err
	}
	employees := make([]Employee, 0, len(res.Entries))
	for _, entry := range res.Entries {
		e := l.employeeFromEntry(entry)
		if e.EmployeeID == "" {
			continue
		}
		employees = append(employees, *e)
	}
	slices.SortFunc(employees, func(a, b Employee) int {
		return strings.Compare(a.DisplayName, b.DisplayName)
	})
	l.listCache.SetDefault("all", employees)
	return employees, nil
}

func (l *LDAPClient) IntrospectToken(ctx context.Context, token, url, authHeader string) (bool, string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader("token="+token))
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to build introspection request")
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		l.logger.Error().Err(err).Str("url", url).Msg("introspection HTTP request failed")
		return false, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		l.logger.Debug().Int("status", resp.StatusCode).Msg("token introspection not active")
		return false, "", nil
	}
	var out struct {
		Active bool   `json:"active"`
		Sub    string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		l.logger.Error().Err(err).Msg("failed to decode introspection response")
		return false, "", err
	}

	username := strings.SplitN(out.Sub, "@", 2)[0]
	return out.Active, username, nil
}

func (l *LDAPClient) employeeFromEntry(entry *ldap.Entry) *Employee {
	return &Employee{
		EmployeeID:  firstNonEmpty(entry.GetAttributeValue(l.cfg.TokenUserAttr), entry.GetAttributeValue("mail")),
		DN:          entry.DN,
		DisplayName: firstNonEmpty(entry.GetAttributeValue("displayName"), entry.GetAttributeValue("cn")),
		Mail:        entry.GetAttributeValue("mail"),
		Role:        ParseRole(entry.GetAttributeValue(l.cfg.RoleAttr), l.cfg.DefaultRole),
	}
}

// ParseRole maps a directory role attribute onto a dashboard role.
// Unknown or empty values fall back to the configured default so a
// missing attribute never grants elevated access.
func ParseRole(value, def string) access.Role {
	switch normalizeRole(value) {
	case "superadmin":
		return access.RoleSuperAdmin
	case "manager":
		return access.RoleManager
	case "employee":
		return access.RoleEmployee
	}
	switch normalizeRole(def) {
	case "superadmin":
		return access.RoleSuperAdmin
	case "manager":
		return access.RoleManager
	default:
		return access.RoleEmployee
	}
}

func normalizeRole(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func userAttrList(cfg config.LDAPConfig) []string {
	attrs := []string{"dn", "displayName", "mail", "uid", "cn"}
	if cfg.TokenUserAttr != "" && !slices.Contains(attrs, cfg.TokenUserAttr) {
		attrs = append(attrs, cfg.TokenUserAttr)
	}
	if cfg.RoleAttr != "" && !slices.Contains(attrs, cfg.RoleAttr) {
		attrs = append(attrs, cfg.RoleAttr)
	}
	return attrs
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func safeAttr(a string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-' || r == '_' {
			return r
		}
		return -1
	}, a)
}

func dialLDAPAuto(cfg config.LDAPConfig) (*ldap.Conn, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("LDAP URL is empty")
	}

	isLDAPS := strings.HasPrefix(strings.ToLower(u), "ldaps://")
	isLDAP := strings.HasPrefix(strings.ToLower(u), "ldap://")

	if !isLDAP && !isLDAPS {
		return nil, errors.New("URL must start with ldap:// or ldaps://")
	}

	if isLDAPS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		hostPort := strings.TrimPrefix(u, "ldaps://")
		if host, _, err := net.SplitHostPort(hostPort); err == nil && host != "" {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = hostPort
		}
		return ldap.DialURL(u, ldap.DialWithTLSConfig(tlsConfig))
	}

	conn, err := ldap.DialURL(u)
	if err != nil {
		return nil, err
	}

	if cfg.RequireTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		hostPort := strings.TrimPrefix(u, "ldap://")
		if host, _, err := net.SplitHostPort(hostPort); err == nil && host != "" {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = hostPort
		}
		if err := conn.StartTLS(tlsConfig); err != nil {
			conn.Close()
			return nil, fmt.Errorf("StartTLS failed: %w", err)
		}
	}

	return conn, nil
}
