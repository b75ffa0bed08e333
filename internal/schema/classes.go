package schema

import (
	config "github.com/hanpama/graphcore/internal/config"
)

// Attributes shared by the schema object classes. They double as the
// builder vocabulary inside configuration blocks:
//
//	schema.MustObject(func(c *config.Configuration) {
//		schema.Name.Set(c, "Human")
//		schema.AddField(c, "name", schema.String)
//	})
var (
	Name              = config.NewAttribute[string]("name")
	Description       = config.NewAttribute[string]("description", config.Default(""))
	Fields            = config.NewAttribute[[]*Field]("fields")
	Interfaces        = config.NewAttribute[[]*Type]("interfaces", config.Default([]*Type(nil)))
	Types             = config.NewAttribute[[]*Type]("types")
	Values            = config.NewAttribute[[]*EnumValue]("values")
	Coerce            = config.NewAttribute[CoerceFunc]("coerce")
	TypeResolver      = config.NewAttribute[ResolveTypeFunc]("resolveType")
	FieldType         = config.NewAttribute[TypeRef]("type")
	Args              = config.NewAttribute[[]*Argument]("args", config.Default([]*Argument(nil)))
	Resolve           = config.NewAttribute[ResolveFunc]("resolve", config.Default(ResolveFunc(nil)))
	DeprecationReason = config.NewAttribute[string]("deprecationReason", config.Default(""))
	DefaultValue      = config.NewAttribute[any]("defaultValue", config.Default(nil))
	Value             = config.NewAttribute[any]("value", config.Default(nil))

	Query      = config.NewAttribute[*Type]("query")
	Mutation   = config.NewAttribute[*Type]("mutation", config.Default((*Type)(nil)))
	ExtraTypes = config.NewAttribute[[]*Type]("types", config.Default([]*Type(nil)))
)

// Classes of the schema objects. Pre-building a configuration with one of
// them and passing it as the first constructor argument adopts it.
var (
	ScalarClass    = config.NewClass("Scalar").Declare(Name, Description, Coerce)
	ObjectClass    = config.NewClass("Object").Declare(Name, Description, Fields, Interfaces)
	InterfaceClass = config.NewClass("Interface").Declare(Name, Description, Fields, TypeResolver)
	UnionClass     = config.NewClass("Union").Declare(Name, Description, Types, TypeResolver)
	EnumClass      = config.NewClass("Enum").Declare(Name, Description, Values)
	FieldClass     = config.NewClass("Field").Declare(Name, FieldType, Description, Args, Resolve, DeprecationReason)
	ArgumentClass  = config.NewClass("Argument").Declare(Name, FieldType, Description, DefaultValue)
	EnumValueClass = config.NewClass("EnumValue").Declare(Name, Value, Description, DeprecationReason)
	SchemaClass    = config.NewClass("Schema").Declare(Query, Mutation, ExtraTypes)
)
