/*
Package dialogue defines the typed conversation graph: nodes, edges and the
graph container itself.

The graph is an arena of integer node ids. Edges are plain id pairs, so the
structure can be copied, spliced and serialized without chasing pointers.
Cycles are legal ("ask again" loops); making forward progress is the session's
job, not the model's.
*/
package dialogue
