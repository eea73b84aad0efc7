// Package reactor resolves a flat sonar property bag into a validated tree
// of project definitions, the "reactor" an analysis pipeline traverses.
//
// Resolution runs in four ordered phases:
//  1. collect the module ids declared under sonar.modules, recursively,
//     rejecting an id declared more than once anywhere in the bag;
//  2. partition the flat bag into one bag per module id by exact
//     "<moduleId>." key prefix, leaving unmatched keys to the root;
//  3. build the tree root-first: resolve base directories, default module
//     keys and names, merge inherited parent properties and attach children
//     in declared order;
//  4. clean and validate the finished tree: aggregator projects lose their
//     source/test/binary/library properties, leaf projects get their source
//     paths checked and their library patterns expanded to absolute files.
//
// Any violated contract aborts the whole resolution with a
// *ConfigurationError; no partial tree is ever returned.
package reactor
