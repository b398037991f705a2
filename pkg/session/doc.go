/*
Package session drives one live traversal of a dialogue graph.

A Session owns a private copy of its graph and a private local scope. It is
turn-based and single-threaded: the presentation layer calls Advance and
Select, and receives back the lines and choice sets to display. There is no
background execution; a "paused" session is simply one waiting for Select.
*/
package session
