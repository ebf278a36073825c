// Package services contains the business logic layer.
//
// Services defined in this package:
//   - AuthService: authentication, token issuance and rotation
//   - UserService: profiles, password changes, admin user management
//   - CommunityService: communities and memberships
//   - EventService: event lifecycle, listing and geographic search
//   - RegistrationService: event registration with capacity enforcement
//   - CommentService: event comments and replies
//   - StatsService: aggregate platform counters
package services
