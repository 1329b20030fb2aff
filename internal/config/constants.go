package config

// ManifestFileName is the class manifest looked up when no path is given.
const ManifestFileName = "fxresolve.yaml"

// ManifestFileNames are all recognized manifest file names, in lookup order.
var ManifestFileNames = []string{"fxresolve.yaml", "fxresolve.yml", ".fxresolve.yaml"}

// IndexFileExt is the extension of a prebuilt SQLite class index.
const IndexFileExt = ".fxidx"

// DefaultNamespace is implicitly imported by every compilation unit.
const DefaultNamespace = "java.lang"

// Core class names
const (
	ObjectClassName       = "java.lang.Object"
	StringClassName       = "java.lang.String"
	NumberClassName       = "java.lang.Number"
	CloneableClassName    = "java.lang.Cloneable"
	SerializableClassName = "java.io.Serializable"
)

// Observable and writable value classes
const (
	ObservableValueClassName        = "javafx.beans.value.ObservableValue"
	ObservableBooleanValueClassName = "javafx.beans.value.ObservableBooleanValue"
	ObservableIntegerValueClassName = "javafx.beans.value.ObservableIntegerValue"
	ObservableLongValueClassName    = "javafx.beans.value.ObservableLongValue"
	ObservableFloatValueClassName   = "javafx.beans.value.ObservableFloatValue"
	ObservableDoubleValueClassName  = "javafx.beans.value.ObservableDoubleValue"
	ObservableStringValueClassName  = "javafx.beans.value.ObservableStringValue"
	ObservableObjectValueClassName  = "javafx.beans.value.ObservableObjectValue"

	WritableValueClassName        = "javafx.beans.value.WritableValue"
	WritableBooleanValueClassName = "javafx.beans.value.WritableBooleanValue"
	WritableIntegerValueClassName = "javafx.beans.value.WritableIntegerValue"
	WritableLongValueClassName    = "javafx.beans.value.WritableLongValue"
	WritableFloatValueClassName   = "javafx.beans.value.WritableFloatValue"
	WritableDoubleValueClassName  = "javafx.beans.value.WritableDoubleValue"

	BooleanPropertyClassName = "javafx.beans.property.BooleanProperty"
	IntegerPropertyClassName = "javafx.beans.property.IntegerProperty"
	LongPropertyClassName    = "javafx.beans.property.LongProperty"
	FloatPropertyClassName   = "javafx.beans.property.FloatProperty"
	DoublePropertyClassName  = "javafx.beans.property.DoubleProperty"
	StringPropertyClassName  = "javafx.beans.property.StringProperty"
	ObjectPropertyClassName  = "javafx.beans.property.ObjectProperty"
	PropertyClassName        = "javafx.beans.property.Property"

	ReadOnlyBooleanPropertyClassName = "javafx.beans.property.ReadOnlyBooleanProperty"
	ReadOnlyIntegerPropertyClassName = "javafx.beans.property.ReadOnlyIntegerProperty"
	ReadOnlyLongPropertyClassName    = "javafx.beans.property.ReadOnlyLongProperty"
	ReadOnlyFloatPropertyClassName   = "javafx.beans.property.ReadOnlyFloatProperty"
	ReadOnlyDoublePropertyClassName  = "javafx.beans.property.ReadOnlyDoubleProperty"
	ReadOnlyStringPropertyClassName  = "javafx.beans.property.ReadOnlyStringProperty"
	ReadOnlyObjectPropertyClassName  = "javafx.beans.property.ReadOnlyObjectProperty"
)

// Accessor naming conventions
const (
	GetterPrefix          = "get"
	BooleanGetterPrefix   = "is"
	SetterPrefix          = "set"
	PropertyGetterSuffix  = "Property"
	ConstructorMethodName = "<init>"
)

// DefaultParallelism bounds how many compilation units resolve at once.
const DefaultParallelism = 8
