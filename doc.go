/*
Package autoclicker is a hotkey-driven input automation engine.

It runs a set of actuator slots, each a toggleable repeating action
(mouse clicks or key presses) bound to a global hotkey. Slots are
organized in mutex groups so only one member of a group runs at a time,
and a dedicated emergency-stop hotkey halts everything at once. Hotkeys
can be rebound at runtime by capturing the next key press.

The engine core is decoupled from the platform through small ports:
input actuation, the global key hook, and notification sinks all sit
behind interfaces, with real adapters (robotgo, gohook, systray) and
in-memory test doubles under pkg/adapters. A checksum-verified
self-update pipeline replaces the running binary atomically, keeping a
backup of the previous version.
*/
package autoclicker
