/*
Package ports defines the interfaces between the dialogue core and its
collaborators: graph storage, audio playback and global-scope persistence.

Adapters implementing these interfaces live under internal/adapters. The
contract test suites in this package let every adapter prove the same
behavior.
*/
package ports
