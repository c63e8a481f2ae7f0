package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSourceImports(t *testing.T) {
	src := `import {Text, cut as snip} from "@mono/text"
import type {Config} from "./config"
import * as utils from './utils'
import "side-effect"
export {EditorState} from "./state.ts"
export * from "./convenience"
`
	f := parseSource("index.ts", []byte(src))

	require.Len(t, f.Imports, 6)

	require.Equal(t, "@mono/text", f.Imports[0].Specifier)
	require.Equal(t, []string{"Text", "cut"}, f.Imports[0].Names)
	require.Equal(t, 1, f.Imports[0].Line)
	require.False(t, f.Imports[0].TypeOnly)

	require.Equal(t, "./config", f.Imports[1].Specifier)
	require.True(t, f.Imports[1].TypeOnly)
	require.Equal(t, []string{"Config"}, f.Imports[1].Names)

	require.Equal(t, "./utils", f.Imports[2].Specifier)
	require.Empty(t, f.Imports[2].Names)

	require.Equal(t, "side-effect", f.Imports[3].Specifier)

	require.Equal(t, "./state.ts", f.Imports[4].Specifier)
	require.True(t, f.Imports[4].Reexport)
	require.Equal(t, []string{"EditorState"}, f.Imports[4].Names)

	require.Equal(t, "./convenience", f.Imports[5].Specifier)
	require.True(t, f.Imports[5].Reexport)
	require.Empty(t, f.Imports[5].Names)
}

func TestParseSourceExports(t *testing.T) {
	src := `export const version = "1.0"
export function of(value) { return value }
export class EditorState {
}
export type Extension = unknown
export interface Config {
  tabSize: number
}
const hidden = 1
export {hidden as visible}
export {EditorSelection} from "./selection"
`
	f := parseSource("state.ts", []byte(src))

	for _, name := range []string{"version", "of", "EditorState", "Extension", "Config", "visible", "EditorSelection"} {
		require.Contains(t, f.Exports, name, "expected export %q", name)
	}
	require.NotContains(t, f.Exports, "hidden")
}

func TestParseSourceImportAliasTargetsExportedName(t *testing.T) {
	f := parseSource("a.ts", []byte(`import {real as alias} from "./b"`))
	require.Equal(t, []string{"real"}, f.Imports[0].Names)
}
