package filesystem

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSFTPPort is used when an sftp:// URL has no port.
const DefaultSFTPPort = 22

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// Endpoint returns user@host:port for remote paths and "" for local ones.
// Paths sharing an endpoint can share one SFTP connection.
func (p *ParsedPath) Endpoint() string {
	if !p.IsRemote {
		return ""
	}

	return p.User + "@" + net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// ParsePath parses a path string, detecting whether it's a local path or SFTP URL.
// SFTP URLs have the format sftp://user@host[:port]/path; the port defaults to 22.
//
//   - sftp://joe@myserver.com/data     → "data" relative to the remote home
//   - sftp://joe@myserver.com//backups → absolute "/backups"
//   - /local/path/to/files             → local path
func ParsePath(p string) (*ParsedPath, error) {
	if strings.HasPrefix(p, "sftp://") {
		return parseSFTPURL(p)
	}

	return &ParsedPath{LocalPath: p}, nil
}

func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("SFTP URL must include username (sftp://user@host/path)") //nolint:err113,perfsprint // URL validation with format guidance
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("SFTP URL must include host") //nolint:err113,perfsprint // URL validation error
	}

	port := DefaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
	}

	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath,
	}, nil
}
