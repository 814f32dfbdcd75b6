package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vaultsh/vaultsh/internal/vault"
)

func renderUsers(w io.Writer, users []vault.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Email\tName\tNode")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Email, u.Name, u.NodeID)
	}
	tw.Flush()
}

func renderTeams(w io.Writer, teams []vault.Team) {
	if len(teams) == 0 {
		fmt.Fprintln(w, "No teams.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Team\tNode")
	for _, t := range teams {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.NodeID)
	}
	tw.Flush()
}

func renderRoles(w io.Writer, roles []vault.Role) {
	if len(roles) == 0 {
		fmt.Fprintln(w, "No roles.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Role\tNode")
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.NodeID)
	}
	tw.Flush()
}

func renderNodes(w io.Writer, nodes []vault.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No nodes.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Node\tParent")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%s\n", n.Name, n.ParentID)
	}
	tw.Flush()
}

func renderAudit(w io.Writer, events []vault.AuditEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No audit events.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tActor\tType\tMessage")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ev.Time.Format("2006-01-02 15:04:05"), ev.Actor, ev.Type, ev.Message)
	}
	tw.Flush()
}

func renderBackups(w io.Writer, backups []vault.Backup) {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated\tSize")
	for _, b := range backups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.ID, b.Created.Format("2006-01-02 15:04:05"), b.Size)
	}
	tw.Flush()
}
