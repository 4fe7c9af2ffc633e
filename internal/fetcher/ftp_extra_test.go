package fetcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFTPServer speaks just enough FTP for a passive-mode RETR.
type fakeFTPServer struct {
	listener net.Listener
	files    map[string]string

	mu    sync.Mutex
	users []string
	wg    sync.WaitGroup
}

func newFakeFTPServer(t *testing.T, files map[string]string) *fakeFTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeFTPServer{listener: ln, files: files}
	s.wg.Add(1)
	go s.acceptLoop()
	t.Cleanup(s.close)
	return s
}

func (s *fakeFTPServer) url(path string) string {
	return fmt.Sprintf("ftp://%s%s", s.listener.Addr().String(), path)
}

func (s *fakeFTPServer) close() {
	s.listener.Close() //nolint:errcheck
	s.wg.Wait()
}

func (s *fakeFTPServer) loggedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

func (s *fakeFTPServer) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.session(conn)
	}
}

func (s *fakeFTPServer) session(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()                                 //nolint:errcheck
	conn.SetDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck

	w := bufio.NewWriter(conn)
	r := bufio.NewReader(conn)
	reply := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\r\n", args...) //nolint:errcheck
		w.Flush()                              //nolint:errcheck
	}

	reply("220 fake ftp ready")

	var data net.Listener
	openData := func() bool {
		var err error
		data, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			reply("425 cannot open data connection")
			return false
		}
		return true
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch strings.ToUpper(cmd) {
		case "USER":
			s.mu.Lock()
			s.users = append(s.users, arg)
			s.mu.Unlock()
			reply("331 password please")
		case "PASS":
			reply("230 logged in")
		case "FEAT":
			reply("211-Features:\r\n UTF8\r\n211 End")
		case "TYPE":
			reply("200 type set to %s", arg)
		case "OPTS":
			reply("200 ok")
		case "EPSV":
			if openData() {
				reply("229 Entering Extended Passive Mode (|||%d|)", data.Addr().(*net.TCPAddr).Port)
			}
		case "PASV":
			if openData() {
				port := data.Addr().(*net.TCPAddr).Port
				reply("227 Entering Passive Mode (127,0,0,1,%d,%d)", port/256, port%256)
			}
		case "RETR":
			if data == nil {
				reply("425 use PASV first")
				continue
			}
			content, ok := s.files[arg]
			if !ok {
				data.Close() //nolint:errcheck
				data = nil
				reply("550 file not found")
				continue
			}
			reply("150 opening data connection")
			dc, err := data.Accept()
			if err != nil {
				reply("425 cannot open data connection")
				continue
			}
			io.WriteString(dc, content) //nolint:errcheck
			dc.Close()                  //nolint:errcheck
			data.Close()                //nolint:errcheck
			data = nil
			reply("226 transfer complete")
		case "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 not implemented")
		}
	}
}

func TestFTPFetcher_Download(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{
		"/encuestas/dha.xlsx": "PK fake workbook",
	})

	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})
	body, err := f.Download(context.Background(), srv.url("/encuestas/dha.xlsx"))
	require.NoError(t, err)

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "PK fake workbook", string(data))
	assert.Equal(t, []string{"anonymous"}, srv.loggedUsers())
}

func TestFTPFetcher_Download_InvalidURL(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})

	_, err := f.Download(context.Background(), "http://not-ftp/path")
	require.Error(t, err)
}

func TestFTPFetcher_Download_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close() //nolint:errcheck

	f := NewFTPFetcher(FTPOptions{Timeout: 2 * time.Second})
	_, err = f.Download(context.Background(), "ftp://"+addr+"/file.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp dial")
}

func TestFTPFetcher_Download_FileNotFound(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{"/existing.xlsx": "data"})

	f := NewFTPFetcher(FTPOptions{Timeout: 5 * time.Second})
	_, err := f.Download(context.Background(), srv.url("/missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp retrieve")
}
