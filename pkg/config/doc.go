/*
Package config manages configuration parsing and validation for parcrypt.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |                       |           |
	+-----+-----+           +----+----+  +---+----+
	|   YAML    |           |   HCL   |  |  JSON  |
	| Parser    |           | Parser  |  | Parser |
	+-----------+           +---------+  +--------+

🎯 Purpose:
- Manages configuration loading and parsing
- Validates configuration values and applies defaults
- Provides type-safe config access
- Supports multiple config formats selected by file extension

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates configuration values
4. Provides validated config to other packages

⚡ Key Responsibilities:
- Source selection (provider, patterns)
- Cipher parameters (direction, shift)
- Execution parameters (strategy, parallelism, join ceiling)
- Directory layout (staging, output)

📝 Design Philosophy:
The config package is the source of truth for all configuration. Directories
are explicit configuration passed down to the executor and workers, never
ambient global state, so tests can redirect everything to isolated temporary
locations.
*/
package config
