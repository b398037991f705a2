/*
Package script implements the small statement language embedded in dialogue
graphs: $variable substitution, assignments, single binary comparisons and
function-call dispatch.

It is deliberately not a programming language. A line is one statement; there
are no loops, no user-defined functions and no nesting beyond one comparison
or assignment.
*/
package script
