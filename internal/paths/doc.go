// Provides the fixed paths and directory layout of a plugin package.
//
// The host framework loads native plugins from reframework/plugins and runs
// Lua scripts found under reframework/autorun. Both locations are relative to
// the package output root and are not configurable. Source locations follow
// the cargo conventions of the project being packaged: the release binary is
// read from target/release and the script bundle from scripts.
//
// The per-user state directory (where the last build log is kept) follows
// XDG conventions on Linux and platform-native conventions on macOS and
// Windows.
package paths
