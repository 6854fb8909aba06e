// Package mesh rebuilds render and boundary topology from the surviving
// particles of a body.
//
// Triangulate is a Bowyer-Watson Delaunay triangulation over living
// particles. Rebuilder turns that triangulation into the triangle list the
// renderers draw and the boundary loop the pressure solver integrates over.
// Neither ever panics on degenerate input; they return empty results and the
// rebuilder falls back to the last loop that worked.
package mesh
