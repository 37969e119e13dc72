// Package cli implements santactl, the administrator's command-line tool for
// the secret santa server.
//
// Every command talks to the admin gRPC service through client.Client:
// seeding participants, running the shuffle, inspecting users and archived
// shuffles, and clearing assignments or messages. The root command binds
// --server, --admin-token and --timeout on top of the values loaded by the
// config package.
package cli
