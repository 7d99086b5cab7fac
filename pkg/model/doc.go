// Package model describes the entities handled by dddit:
// repositories, resources, branches and versions of 3D assets,
// together with their naming rules and the path conventions used
// to address payloads and metadata documents on storage.
package model
