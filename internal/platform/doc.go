// Package platform talks to Steam.
//
// Client wraps the two Steam Web API endpoints s7forge uses,
// IPublishedFileService/GetDetails and ISteamUser/GetPlayerSummaries, and
// decodes their responses with gjson. Session layers the callback model of
// the Steamworks client on top: QueryItems starts a request in the
// background and RunCallbacks, the pump, delivers finished results on the
// caller's goroutine. Manager hands out one Session per app id.
package platform
