// Package platform connects the synchronization engine to Discord.
//
// Discord implements Platform over a narrow API interface satisfied by
// *discordgo.Session. Every REST call waits on a shared rate limiter. HTTP 403
// answers become ErrPermissionDenied and every other failure a *RemoteError.
//
// Events are created as external, guild-only scheduled events whose location
// is the tournament URL; that location is how later passes recognize them.
//
// # Notifications
//
// ChannelNotifier posts category-prefixed messages to the channel configured
// for a guild. LogNotifier writes the same messages to the logger and is used
// by command line runs.
package platform
