// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Ballot Ledger API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(l, cfg)

# Endpoints

Health and caller:

	GET /health
	GET /me - Identity behind X-Identity-Token, and whether it is the admin

Elections (mutations are admin only):

	POST /elections                - Create election
	GET  /elections[?status=open]  - List elections
	GET  /elections/{id}           - Election with derived status
	POST /elections/{id}/toggle    - Pause or resume
	POST /elections/{id}/end       - End permanently

Candidates (mutations are admin only):

	POST /elections/{id}/candidates              - Add candidate
	GET  /elections/{id}/candidates              - List, hidden included
	GET  /elections/{id}/candidates/{cid}        - Get candidate
	PUT  /elections/{id}/candidates/{cid}        - Edit profile fields
	POST /elections/{id}/candidates/{cid}/active - Show or hide

Voting:

	POST /elections/{id}/votes           - Cast vote
	GET  /elections/{id}/votes           - Vote log in commit order
	GET  /elections/{id}/voters/{voter}  - Has this identity voted

Results:

	GET /elections/{id}/winners - Tied leaders among active candidates
	GET /elections/{id}/results - Ranked standings
*/
package router
