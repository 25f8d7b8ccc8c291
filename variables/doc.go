/*
Package variables implements variables for the MXL language.

Variables are declared explicitly with a type and, for matrices, fixed
dimensions:

   int a, b = 3;
   matrix m[2][3];
   const matrix id[2][2] = [[1,0],[0,1]];

A declaration (type VarDecl) fixes the type and shape of a variable for its
whole lifetime. Every assignment is checked against the declaration: a
scalar can never be stored in a matrix variable (and vice versa), and a
matrix variable only accepts matrices of its declared shape. Constants may
be initialized, but not assigned to.

Variable references (type VarRef) hold the current value of a variable.
They live in symbol tables (type SymbolTable), which keep their entries in
order of declaration.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package variables
