package app

import (
	"fmt"
	"io"
	"net"

	"github.com/charmbracelet/lipgloss"
)

// Banner describes what the server prints once it is ready to accept.
type Banner struct {
	Version       string
	ListenAddress string
	ExternalIP    string
	StatusAddress string
}

// ConnectAddress is the "host:port" a client on another machine should dial.
func (b Banner) ConnectAddress() string {
	host, port, err := net.SplitHostPort(b.ListenAddress)
	if err != nil {
		return b.ListenAddress
	}

	switch {
	case b.ExternalIP != "":
		host = b.ExternalIP
	case host == "" || net.ParseIP(host).IsUnspecified():
		host = MsgConnectPlaceholder
	}

	return net.JoinHostPort(host, port)
}

// Render writes the banner to w, styled for w's color profile.
func (b Banner) Render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)

	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label := r.NewStyle().Foreground(lipgloss.Color("245")).Width(13)
	value := r.NewStyle().Bold(true)
	hint := r.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	row := func(name, v string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), value.Render(v))
	}

	externalIP := b.ExternalIP
	if externalIP == "" {
		externalIP = MsgExternalIPUnknown
	}

	heading := MsgServerTitle
	if b.Version != "" {
		heading = fmt.Sprintf("%s %s", MsgServerTitle, b.Version)
	}

	rows := []string{
		title.Render(heading),
		"",
		row("listening on", b.ListenAddress),
		row("external ip", externalIP),
		row("connect to", b.ConnectAddress()),
	}
	if b.StatusAddress != "" {
		rows = append(rows, row("status", "http://"+b.StatusAddress+"/api/status"))
	}
	rows = append(rows, "", hint.Render(MsgWaitingForConnections))

	_, err := fmt.Fprintln(w, box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return err
}
